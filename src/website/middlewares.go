package website

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/deskdata"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
	"github.com/newsdeskhq/newsdesk/src/perms"
)

// The caller's identity, as asserted by the fronting proxy. The newsdesk
// core never sees credentials; the gateway terminates auth and forwards
// the account's username in this header.
const AccountHeader = "X-Newsdesk-Account"

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

func trackRequestTime(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		start := time.Now()
		res := h(c)
		c.Logger.Info().
			Str("method", c.Req.Method).
			Str("path", c.Req.URL.Path).
			Int("status", res.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("served request")
		return res
	}
}

// Resolves the identity header to an account, if one was sent. Routes that
// require identity layer needsAccount on top.
func resolveAccount(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		username := c.Req.Header.Get(AccountHeader)
		if username != "" {
			account, err := deskdata.FetchAccountByUsername(c, c.Conn, username)
			if err == nil {
				c.CurrentUser = account
			} else if !errors.Is(err, db.NotFound) {
				return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to resolve account"))
			}
		}

		return h(c)
	}
}

func needsAccount(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentUser == nil {
			return errJson(http.StatusUnauthorized, "no account identified; set the "+AccountHeader+" header")
		}

		return h(c)
	}
}

func needsRole(min models.Role) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			if c.CurrentUser == nil || !perms.HasPermission(c.CurrentUser.Role, min) {
				return errJson(http.StatusForbidden, fmt.Sprintf("requires %s role or above", min))
			}

			return h(c)
		}
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		for _, err := range res.Errors {
			c.Logger.Error().Timestamp().Stack().Str("route", c.Route).Err(err).Msg("error occurred during request")
		}
		return res
	}
}
