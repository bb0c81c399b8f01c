package main

import (
	"log"
	"net/http"
	"time"

	"storefront-engine/internal/config"
	shttp "storefront-engine/internal/controllers/http"
	mmysql "storefront-engine/internal/infra/mysql"
	"storefront-engine/internal/infra/rabbitmq"
	"storefront-engine/internal/middlewares"
	mysqlrepo "storefront-engine/internal/repository/mysql"
	"storefront-engine/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	productRepo := mysqlrepo.NewProductRepository(db)
	adjustmentRepo := mysqlrepo.NewInventoryAdjustmentRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	subscriptionRepo := mysqlrepo.NewSubscriptionEventRepository(db)
	returnRepo := mysqlrepo.NewReturnRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.EventExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	productCache := services.NewProductCache(productRepo, redisClient)

	inventoryService := services.NewInventoryService(productRepo, adjustmentRepo, publisher)
	inventoryService.SetProductCache(productCache)

	orderService := services.NewOrderService(orderRepo, adjustmentRepo, publisher)
	orderService.SetProductCache(productCache)

	subscriptionService := services.NewSubscriptionService(orderRepo, subscriptionRepo, publisher)
	returnsService := services.NewReturnsService(returnRepo, orderRepo, inventoryService, publisher)

	handler := shttp.NewHandler(orderService, inventoryService, subscriptionService, returnsService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(r, cfg.JWTSecret)

	log.Printf("Starting storefront engine on port %s", cfg.Port)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
