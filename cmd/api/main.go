package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/ecshop/internal/api"
	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/config"
	"github.com/example/ecshop/internal/messaging"
	"github.com/example/ecshop/internal/service"
	"github.com/example/ecshop/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	logger.Info("store initialized", "driver", cfg.Store.Driver)

	// Event publishing is optional: without brokers the order service
	// runs with a nil publisher. Keep the interface variable nil in that
	// case rather than assigning a nil *Producer into it.
	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		logger.Info("kafka producer initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		logger.Info("kafka disabled, order events will not be published")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	userSvc := service.NewUserService(st)
	catalogSvc := service.NewCatalogService(st, st)
	cartSvc := service.NewCartService(st, st)
	wishlistSvc := service.NewWishlistService(st, st)
	orderSvc := service.NewOrderService(st, st, st, publisher, logger)

	router := api.NewRouter(api.RouterConfig{
		Users:    userSvc,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Wishlist: wishlistSvc,
		Orders:   orderSvc,
		JWT:      jwtService,
		Store:    st,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Driver == "memory" {
		return store.NewMemoryStore(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})
	return store.NewDynamoStore(client, cfg.DynamoDB.TablePrefix), nil
}
