package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"storefront_admin/config"
	"storefront_admin/internal/clients"
	"storefront_admin/internal/delivery"
	"storefront_admin/internal/health"
	"storefront_admin/internal/middleware"
	"storefront_admin/internal/proxy"
	"storefront_admin/internal/session"
	"storefront_admin/internal/storage"
	"storefront_admin/internal/usecase"
)

const healthInterval = 30 * time.Second

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.Level())
	logger.Info("Starting storefront admin server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, storeCloser, err := storage.Open(ctx, cfg.StoreOptions(), logger)
	if err != nil {
		logger.Fatalf("Failed to open side-store: %v", err)
	}

	apiClient := clients.NewAPIHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	logger.Infof("Backend API target: %s", apiClient.BaseURL())

	nav := session.NavigatorFunc(func(path string) {
		logger.Infof("Session: Admin logged out, UI should navigate to %s", path)
	})
	sessionManager := session.NewManager(ctx, apiClient, store, nav, logger)

	categoryUseCase := usecase.NewCategoryUseCase(apiClient, logger)
	productUseCase := usecase.NewProductUseCase(apiClient, logger)
	voucherUseCase := usecase.NewVoucherUseCase(apiClient, logger)
	userUseCase := usecase.NewUserUseCase(apiClient, logger)

	checker := health.NewChecker(cfg.APIBaseURL, cfg.RequestTimeout, sessionManager, logger)
	go checker.Run(ctx, healthInterval)

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", checker.Handler)

	if cfg.AssetBaseURL != "" {
		assetProxy, err := proxy.NewReverseProxy(cfg.AssetBaseURL, "/assets", logger)
		if err != nil {
			logger.Fatalf("Failed to create asset proxy: %v", err)
		}
		router.GET("/assets/*path", proxy.ProxyHandler(assetProxy, logger))
	} else {
		logger.Warn("ASSET_BASE_URL is not set, /assets is disabled")
	}

	api := router.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.RequireSession(sessionManager, session.LoginPath, logger))
	{
		delivery.NewSessionHandler(sessionManager, logger).RegisterRoutes(api, protected)
		delivery.NewCategoryHandler(categoryUseCase, logger).RegisterRoutes(protected)
		delivery.NewProductHandler(productUseCase, logger).RegisterRoutes(protected)
		delivery.NewVoucherHandler(voucherUseCase, logger).RegisterRoutes(protected)
		delivery.NewUserHandler(userUseCase, logger).RegisterRoutes(protected)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("HTTP server listening on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on gRPC port %s: %v", cfg.GrpcPort, err)
	}
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, checker.Server())
	go func() {
		logger.Infof("gRPC health server listening on port %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("gRPC server stopped: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				err := httpServer.Shutdown(ctx)
				if closeErr := storeCloser.Close(); closeErr != nil {
					logger.Errorf("Failed to close side-store: %v", closeErr)
				}
				return err
			},
			"grpc-server": func(_ context.Context) error {
				cancel()
				grpcServer.GracefulStop()
				return nil
			},
		},
	)

	exitCode := <-wait
	logger.Infof("Storefront admin server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
