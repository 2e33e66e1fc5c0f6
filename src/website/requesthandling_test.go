package website

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/newsdeskhq/newsdesk/src/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	handlerCalled := ""
	gotParams := map[string]string{}
	named := func(name string) Handler {
		return func(c *RequestContext) ResponseData {
			handlerCalled = name
			gotParams = c.PathParams
			var res ResponseData
			res.WriteJson(map[string]any{"handler": name})
			return res
		}
	}

	article := routes.Group(regexp.MustCompile(`^/api/article/(?P<id>\d+)`))
	article.GET(regexp.MustCompile(`^/?$`), named("get"))
	article.POST(regexp.MustCompile(`^/action$`), named("action"))
	routes.AnyMethod(regexp.MustCompile(`^`), named("404"))

	do := func(method, path string) *httptest.ResponseRecorder {
		handlerCalled = ""
		gotParams = nil
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
		return recorder
	}

	t.Run("matches a path parameter", func(t *testing.T) {
		recorder := do(http.MethodGet, "/api/article/42")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "get", handlerCalled)
		assert.Equal(t, "42", gotParams["id"])
	})

	t.Run("matches nested routes under a group", func(t *testing.T) {
		do(http.MethodPost, "/api/article/7/action")
		assert.Equal(t, "action", handlerCalled)
		assert.Equal(t, "7", gotParams["id"])
	})

	t.Run("method matters", func(t *testing.T) {
		do(http.MethodGet, "/api/article/7/action")
		assert.Equal(t, "404", handlerCalled)
	})

	t.Run("ignores trailing slashes", func(t *testing.T) {
		do(http.MethodGet, "/api/article/42/")
		assert.Equal(t, "get", handlerCalled)
	})

	t.Run("unknown paths fall through to the wildcard", func(t *testing.T) {
		do(http.MethodGet, "/api/bogus")
		assert.Equal(t, "404", handlerCalled)
	})
}

func TestMiddlewareOrder(t *testing.T) {
	router := &Router{}

	var order []string
	tag := func(name string) Middleware {
		return func(h Handler) Handler {
			return func(c *RequestContext) ResponseData {
				order = append(order, name)
				return h(c)
			}
		}
	}

	routes := RouteBuilder{
		Router:      router,
		Middlewares: []Middleware{tag("outer")},
	}
	inner := routes.WithMiddleware(tag("inner"))
	inner.GET(regexp.MustCompile(`^/thing$`), func(c *RequestContext) ResponseData {
		order = append(order, "handler")
		return ResponseData{}
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/thing", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWorkflowErrorMapping(t *testing.T) {
	c := &RequestContext{}

	statusFor := func(err error) int {
		return workflowErrorResponse(c, err).StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, statusFor(&workflow.ActionError{Kind: workflow.KindMissingFeedback}))
	assert.Equal(t, http.StatusForbidden, statusFor(&workflow.ActionError{Kind: workflow.KindUnauthorized}))
	assert.Equal(t, http.StatusNotFound, statusFor(&workflow.ActionError{Kind: workflow.KindNotFound}))
	assert.Equal(t, http.StatusConflict, statusFor(&workflow.ActionError{Kind: workflow.KindIllegalTransition}))
	assert.Equal(t, http.StatusConflict, statusFor(&workflow.ActionError{Kind: workflow.KindConcurrentModification}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&workflow.ActionError{Kind: workflow.KindValidationFailed}))

	t.Run("validation failures carry the checklist", func(t *testing.T) {
		err := &workflow.ActionError{
			Kind: workflow.KindValidationFailed,
			Msg:  "nope",
		}
		res := workflowErrorResponse(c, err)
		require.NotNil(t, res.Body)
		assert.Contains(t, res.Body.String(), "validation_failed")
	})
}
