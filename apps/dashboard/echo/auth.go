package echodash

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/dashboard"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
)

const (
	cookieName   = "token"
	claimsKey    = "session"
	dashboardKey = "dashboard"
	loginPath    = "/session"
)

func appJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsKey,
		Claims:        new(role.Claims),
		TokenLookup:   "cookie:" + cookieName,
	}
}

func getContextClaims(ctx echo.Context) (role.Claims, error) {
	if token, ok := ctx.Get(claimsKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*role.Claims); ok {
			return *claims, nil
		}
	}
	return role.Claims{}, errUnauthorized
}

func getContextPerson(ctx echo.Context) core.Person {
	var p core.Person
	if claims, err := getContextClaims(ctx); err == nil {
		p.ID = claims.Subject
		p.Username = claims.Username
		p.Email = claims.Email
	}
	return p
}

func getContextDashboard(ctx echo.Context) (*dashboard.Dashboard, error) {
	if d, ok := ctx.Get(dashboardKey).(*dashboard.Dashboard); ok {
		return d, nil
	}
	return nil, errUnauthorized
}

// sessionMiddleware authenticates the session cookie and loads the session's dashboard.
func sessionMiddleware(conf *core.Config, sessions *dashboard.Sessions) echo.MiddlewareFunc {
	jwtAuth := middleware.JWTWithConfig(appJWTConfig(conf))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtAuth(func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			r, err := role.FromFlags(claims.Flags())
			if err != nil {
				return errNoRole
			}
			cookie, err := ctx.Cookie(cookieName)
			if err != nil {
				return errUnauthorized
			}

			d, err := sessions.Get(cookie.Value, r)
			if err != nil {
				if errors.Cause(err) == dashboard.ErrNoTabs {
					return errNoRole
				}
				return errors.Wrap(err, "building dashboard")
			}
			ctx.Set(dashboardKey, d)
			return next(ctx)
		})
	}
}

func registerSessionRoutes(e *echo.Echo, conf *core.Config, sessions *dashboard.Sessions) {
	api := sessionAPI{conf: conf, sessions: sessions}
	e.GET(loginPath, api.loginPage)
	e.POST(loginPath, api.login)
	e.POST(loginPath+"/logout", api.logout)
}

type (
	sessionAPI struct {
		conf     *core.Config
		sessions *dashboard.Sessions
	}

	loginData struct {
		Error string
	}
)

func (api *sessionAPI) loginPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login", loginData{})
}

// login verifies the token issued by the LMS and stores it in the session cookie.
func (api *sessionAPI) login(ctx echo.Context) error {
	token := core.CleanString(ctx.FormValue("token"))
	claims, err := role.ParseToken(token, []byte(api.conf.SecretKey))
	if err != nil {
		return ctx.Render(http.StatusUnauthorized, "login", loginData{Error: err.Error()})
	}
	if _, err := role.FromFlags(claims.Flags()); err != nil {
		return ctx.Render(http.StatusForbidden, "login", loginData{Error: err.Error()})
	}

	cookie := &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// tokens without an expiry get a browser-session cookie
	if claims.ExpiresAt > 0 {
		cookie.Expires = time.Unix(claims.ExpiresAt, 0)
	}
	ctx.SetCookie(cookie)
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (api *sessionAPI) logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(cookieName); err == nil {
		api.sessions.Drop(cookie.Value)
	}
	ctx.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctx.Redirect(http.StatusSeeOther, loginPath)
}
