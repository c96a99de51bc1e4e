// Package devapi is an in-memory stand-in for the LMS REST backend, used for local development and tests.
package devapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

type (
	Options struct {
		Address        string
		SecretKey      string
		DisableReqLogs bool
		DB             *dummydb.DB
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
	}

	Server struct {
		opts Options
		app  *echo.Echo
	}
)

func NewServer(opts Options) *Server {
	s := &Server{opts: opts, app: echo.New()}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.opts.Logger)

	s.app.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	jwt := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(s.opts.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsKey,
		Claims:        new(role.Claims),
	})
	api := entityAPI{db: s.opts.DB, validate: s.opts.Validate, translator: s.opts.Translator}

	g := s.app.Group("/:type", jwt, api.tableMiddleware)
	g.GET("", api.list)
	g.POST("", api.create, api.mutateMiddleware)
	g.GET("/:id", api.retrieve)
	g.DELETE("/:id", api.destroy, api.mutateMiddleware)
}

func (s *Server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
