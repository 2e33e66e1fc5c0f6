package website

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/newsdeskhq/newsdesk/src/pubrules"
	"github.com/newsdeskhq/newsdesk/src/workflow"
)

type apiError struct {
	Error     string                 `json:"error"`
	Kind      string                 `json:"kind,omitempty"`
	Checklist []pubrules.CheckResult `json:"checklist,omitempty"`
}

func errJson(status int, msg string) ResponseData {
	var res ResponseData
	res.StatusCode = status
	res.WriteJson(apiError{Error: msg})
	return res
}

func FourOhFour(c *RequestContext) ResponseData {
	return errJson(http.StatusNotFound, fmt.Sprintf("no such resource: %s", c.Req.URL.Path))
}

func BadRequest(msg string) ResponseData {
	return errJson(http.StatusBadRequest, msg)
}

func (c *RequestContext) ErrorResponse(status int, errs ...error) ResponseData {
	res := errJson(status, http.StatusText(status))
	res.Errors = errs
	return res
}

// Maps a workflow failure onto the response the client can act on. Every
// failure kind has a fixed status so clients can branch on status alone;
// failed validation additionally carries the full checklist.
func workflowErrorResponse(c *RequestContext, err error) ResponseData {
	kind := workflow.KindOf(err)
	if kind == 0 {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var status int
	switch kind {
	case workflow.KindMissingFeedback:
		status = http.StatusBadRequest
	case workflow.KindUnauthorized:
		status = http.StatusForbidden
	case workflow.KindNotFound:
		status = http.StatusNotFound
	case workflow.KindIllegalTransition, workflow.KindConcurrentModification:
		status = http.StatusConflict
	case workflow.KindValidationFailed:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	body := apiError{Error: err.Error(), Kind: kind.String()}
	var actionErr *workflow.ActionError
	if errors.As(err, &actionErr) {
		body.Checklist = actionErr.Checklist
	}

	var res ResponseData
	res.StatusCode = status
	res.WriteJson(body)
	return res
}
