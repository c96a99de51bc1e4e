package echodash

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/dashboard"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errNoRole        = echo.NewHTTPError(http.StatusForbidden, "no dashboard is available for this account")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

type errorData struct {
	Code    int
	Message string
}

func wantsJSON(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().URL.Path, "/api/")
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Page requests get the error page (or the login page once the session is gone), /api requests get JSON.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = errUnauthorized.Message.(string)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			switch origErr {
			case dashboard.ErrReadOnly:
				code = http.StatusForbidden
				message = origErr.Error()
			case dashboard.ErrUnknownTab:
				code = http.StatusNotFound
				message = errHttpNotFound.Message.(string)
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = http.StatusText(code)
				logger.Error(message, errors.Wrap(err, message), getContextPerson(ctx))
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		if ctx.Response().Committed {
			return
		}
		switch {
		case ctx.Request().Method == http.MethodHead: // Issue #608
			err = ctx.NoContent(code)
		case wantsJSON(ctx):
			err = ctx.JSON(code, echo.Map{"error": message})
		case code == http.StatusUnauthorized:
			err = ctx.Redirect(http.StatusSeeOther, loginPath)
		default:
			err = ctx.Render(code, "error", errorData{Code: code, Message: message})
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
