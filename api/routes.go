package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/link-server/internal/handlers/v1/account"
	"github.com/carson-networks/link-server/internal/handlers/v1/institution"
	"github.com/carson-networks/link-server/internal/handlers/v1/item"
	"github.com/carson-networks/link-server/internal/handlers/v1/link"
	"github.com/carson-networks/link-server/internal/handlers/v1/status"
	"github.com/carson-networks/link-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/link-server/internal/linker"
	"github.com/carson-networks/link-server/internal/logging"
	"github.com/carson-networks/link-server/internal/plaid"
	"github.com/carson-networks/link-server/internal/service"
	"github.com/carson-networks/link-server/internal/syncer"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Linker  *linker.Manager
	Syncer  *syncer.Engine
	Plaid   *plaid.Client
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("Link Server API", "1.0.0"))
	link.NewCreateLinkTokenHandler(r.Linker).Register(humaAPI)
	link.NewExchangePublicTokenHandler(r.Linker).Register(humaAPI)
	item.NewListItemsHandler(r.Service.Item).Register(humaAPI)
	item.NewRemoveItemHandler(r.Linker).Register(humaAPI)
	item.NewSyncItemHandler(r.Syncer).Register(humaAPI)
	account.NewListAccountsHandler(r.Service.Account).Register(humaAPI)
	account.NewListBalancesHandler(r.Service.Item, r.Service.Account, r.Syncer).Register(humaAPI)
	institution.NewGetInstitutionHandler(r.Plaid).Register(humaAPI)
	institution.NewListCategoriesHandler(r.Plaid).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewGetRangeHandler(r.Syncer).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           logging.Middleware(r.Logger, mux),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
