package main

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/tmdt/furnishop/internal/adapter/auth"
	"github.com/tmdt/furnishop/internal/adapter/client/momo"
	"github.com/tmdt/furnishop/internal/adapter/client/notification"
	"github.com/tmdt/furnishop/internal/adapter/config"
	"github.com/tmdt/furnishop/internal/adapter/handler/http"
	"github.com/tmdt/furnishop/internal/adapter/logger"
	"github.com/tmdt/furnishop/internal/adapter/storage"
	"github.com/tmdt/furnishop/internal/adapter/storage/repository"
	"github.com/tmdt/furnishop/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repo creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := momo.NewClient(conf.Gateway, log.Named("MoMo"))
	if err != nil {
		log.Error("gateway client creating error", zap.Error(err))
		return
	}

	notifier, err := notification.NewEmailNotifier(log.Named("Notification"))
	if err != nil {
		log.Error("notifier creating error", zap.Error(err))
		return
	}

	flatFee, err := decimal.Parse(conf.Shipping.FlatFee)
	if err != nil {
		log.Error("shipping fee config error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, tokenService, gateway, notifier,
		service.FlatShippingFee(flatFee), log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	productHandler, err := http.NewProductHandler(svc, log.Named("Product handler"))
	if err != nil {
		log.Error("product handler creating error", zap.Error(err))
		return
	}
	cartHandler, err := http.NewCartHandler(svc, log.Named("Cart handler"))
	if err != nil {
		log.Error("cart handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	walletHandler, err := http.NewWalletHandler(svc, log.Named("Wallet handler"))
	if err != nil {
		log.Error("wallet handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService,
		userHandler, productHandler, cartHandler, orderHandler, walletHandler, paymentHandler,
		log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
