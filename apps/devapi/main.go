package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/Mogeshaue/Happy-Fox-sub000/apps/devapi/echo"
	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/services/logger"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

func main() {
	conf := core.NewConfig()

	local, err := logsvc.NewLocal("devapi", conf.Debug)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger := logsvc.NewRollbarLogger(local, conf)
	logger.Enable(false)
	defer func() { _ = logger.Sync() }()

	db, err := dummydb.Open(entity.AllTypes, devapi.Unique)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	server := devapi.NewServer(devapi.Options{
		Address:    conf.DevAPIAddr,
		SecretKey:  conf.SecretKey,
		DB:         db,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("development backend listening on %s", conf.DevAPIAddr))
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
