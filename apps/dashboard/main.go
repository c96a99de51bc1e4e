package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Mogeshaue/Happy-Fox-sub000/apps/dashboard/echo"
	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/dashboard"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/form"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/store"
	appfs "github.com/Mogeshaue/Happy-Fox-sub000/fs"
	"github.com/Mogeshaue/Happy-Fox-sub000/services/api"
	"github.com/Mogeshaue/Happy-Fox-sub000/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	local, err := logsvc.NewLocal("dashboard", conf.Debug)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger := logsvc.NewRollbarLogger(local, conf)
	logger.Enable(!conf.Debug)
	defer func() { _ = logger.Sync() }()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := store.NewMetrics(reg)
	if err != nil {
		logger.Fatal(fmt.Sprintf("registering metrics: %v", err), err)
	}

	// one store per signed-in session, limited to the types its role can view and
	// talking to the backend with the session's token
	registry := dashboard.DefaultRegistry(conf.DateFormat)
	formOpts := form.Options{
		Reset:      form.ParseResetPolicy(conf.ResetPolicy),
		Validate:   validate,
		Translator: translator,
	}
	sessions := dashboard.NewSessions(conf.SessionTTL, func(token string, r role.Interface) (*dashboard.Dashboard, error) {
		client, err := apisvc.NewClient(context.Background(), apisvc.Options{
			BaseURL: conf.API.BaseURL,
			Token:   token,
			Timeout: conf.API.Timeout,
		})
		if err != nil {
			return nil, err
		}
		st := store.New(client.Endpoints(r.Tabs()), store.WithMetrics(metrics))
		return dashboard.New(registry, st, r, dashboard.Options{Form: formOpts})
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server, err := echodash.NewServer(echodash.ServerDeps{
		Conf:      conf,
		Logger:    logger,
		Sessions:  sessions,
		Templates: appfs.Templates,
		Gatherer:  reg,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up server: %v", err), err)
	}

	go func() {
		logger.Info(fmt.Sprintf("dashboard listening on %s (backend %s)", conf.Server.Address, conf.API.BaseURL))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
