package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/link-server/api"
	"github.com/carson-networks/link-server/internal/config"
	"github.com/carson-networks/link-server/internal/events"
	"github.com/carson-networks/link-server/internal/linker"
	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/operator"
	"github.com/carson-networks/link-server/internal/plaid"
	"github.com/carson-networks/link-server/internal/service"
	"github.com/carson-networks/link-server/internal/storage"
	"github.com/carson-networks/link-server/internal/syncer"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("link-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}

	op := operator.NewOperatorDelegator(dbStorage, logger, 4)
	op.Start()
	defer op.Stop()

	plaidClient := plaid.NewClient(plaid.Config{
		ClientID: envConfig.PlaidClientID,
		Secret:   envConfig.PlaidSecret,
		BaseURL:  envConfig.PlaidBaseURL,
	}, nil)

	bridge := events.NewBridge()
	linkManager := linker.NewManager(plaidClient, op, dbStorage.Reader.Items, bridge)
	syncEngine := syncer.NewEngine(plaidClient, op, dbStorage.Reader.Items, bridge, logger)
	svc := service.NewService(dbStorage)

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.ServerPort,
			Service: svc,
			Linker:  linkManager,
			Syncer:  syncEngine,
			Plaid:   plaidClient,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
