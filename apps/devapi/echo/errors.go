package devapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

// newHTTPErrorHandler renders errors the way the LMS backend does:
// {"detail": "..."} for request errors and {"field": ["..."]} for invalid payloads.
func newHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
			}
			body = echo.Map{"detail": origErr.Message}
		case *core.ValidationError:
			code = http.StatusBadRequest
			flds := make(map[string][]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				flds[fErr.Field] = []string{fErr.Error}
			}
			body = flds
		case *dummydb.ExistsError:
			code = http.StatusBadRequest
			body = map[string][]string{origErr.Field: {origErr.Error()}}
		default:
			code = http.StatusInternalServerError
			body = echo.Map{"detail": http.StatusText(code)}
			if logger != nil {
				logger.Error(http.StatusText(code), err)
			}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
