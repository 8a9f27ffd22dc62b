package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
	logger *zap.Logger
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	orderHandler *OrderHandler,
	actorHandler *ActorHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), tracing())

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(authCheck(tokenService))
	{
		api.POST("/tokens", requireRole(domain.RoleAdmin), actorHandler.IssueToken)

		orders := api.Group("/orders")
		{
			customer := requireRole(domain.RoleCustomer)
			staff := requireRole(domain.RoleFulfillment, domain.RoleDelivery, domain.RoleAdmin, domain.RoleSystem)
			admin := requireRole(domain.RoleAdmin)

			orders.POST("", customer, orderHandler.CreateOrder)
			orders.GET("", customer, orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/status", staff, orderHandler.AdvanceStatus)
			orders.POST("/:id/force", admin, orderHandler.ForceStatus)
			orders.POST("/:id/cancel", customer, orderHandler.CancelOrder)
			orders.PATCH("/:id/lines/:product", customer, orderHandler.AdjustLineQuantity)
			orders.POST("/:id/branch", admin, orderHandler.AssignBranch)
		}
	}

	return &Router{Engine: router, logger: logger}, nil
}

// Serve starts the HTTP server and stops it when ctx is done.
func (r *Router) Serve(ctx context.Context, listenAddr string) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("listening", zap.String("address", listenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
