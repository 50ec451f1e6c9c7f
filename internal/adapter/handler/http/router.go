package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tmdt/furnishop/internal/adapter/config"
	"github.com/tmdt/furnishop/internal/core/port"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	productHandler *ProductHandler,
	cartHandler *CartHandler,
	orderHandler *OrderHandler,
	walletHandler *WalletHandler,
	paymentHandler *PaymentHandler,
	log *zap.Logger) (*Router, error) {

	router := gin.New()

	h := NewHandler(log)

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		api.GET("/products/:id", productHandler.GetProduct)

		// The gateway calls this back without our bearer token.
		api.POST("/payment/notify", paymentHandler.Notify)

		authed := api.Group("/")
		authed.Use(authCheck(tokenService, h))
		{
			cart := authed.Group("/cart")
			{
				cart.GET("", cartHandler.GetCart)
				cart.POST("/items", cartHandler.AddToCart)
				cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
				cart.GET("/voucher/:code", cartHandler.PreviewVoucher)
			}

			orders := authed.Group("/orders")
			{
				orders.POST("", orderHandler.Checkout)
				orders.GET("", orderHandler.ListOrdersByUser)
				orders.GET("/:code", orderHandler.GetOrderByCode)
				orders.POST("/:id/cancel", orderHandler.RequestCancel)
				orders.POST("/:id/pay", paymentHandler.PayOrder)
			}

			wallet := authed.Group("/wallet")
			{
				wallet.GET("", walletHandler.GetWallet)
				wallet.GET("/transactions", walletHandler.ListTransactions)
				wallet.POST("/topup", walletHandler.TopUp)
			}

			admin := authed.Group("/admin")
			admin.Use(adminCheck(h))
			{
				admin.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
				admin.POST("/orders/:id/cancel/approve", orderHandler.ApproveCancel)
				admin.POST("/orders/:id/cancel/reject", orderHandler.RejectCancel)
			}
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
