package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-tracker/config"
	"portfolio-tracker/database"
	"portfolio-tracker/handlers"
	"portfolio-tracker/jobs"
	"portfolio-tracker/ledger"
	"portfolio-tracker/middleware"
	"portfolio-tracker/prices"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal("database: ", err)
	}

	rdb, err := config.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("redis: ", err)
	}
	defer rdb.Close()

	oracle := prices.NewAlphaVantageClient(
		cfg.Price.AlphaVantageKey,
		prices.WithBaseURL(cfg.Price.BaseURL),
		prices.WithRateLimit(cfg.Price.RequestsPerSec),
	)
	priceSvc := prices.NewService(oracle, rdb, db, cfg.Price.CacheTTL, cfg.Price.QuoteTimeout)

	dir := database.NewDirectory(db)
	book := ledger.New(dir, priceSvc)

	authHandler := handlers.NewAuthHandler(dir, rdb, cfg.JWTSecret)
	portfolioHandler := handlers.NewPortfolioHandler(book)
	marketHandler := handlers.NewMarketHandler(priceSvc)

	router := gin.Default()

	// Public routes
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/refresh", authHandler.Refresh)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		auth.POST("/buy", portfolioHandler.Buy)
		auth.POST("/sell", portfolioHandler.Sell)
		auth.GET("/holdings", portfolioHandler.Holdings)
		auth.GET("/quote/:ticker", marketHandler.GetQuote)
		auth.GET("/history/:ticker", marketHandler.GetHistory)
		auth.PUT("/password", authHandler.UpdatePassword)
		auth.DELETE("/user", authHandler.DeleteUser)
	}

	revalue := jobs.NewRevalueJob(cfg.RevalueInterval, dir, book, rdb)
	go revalue.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server: ", err)
		}
	}()
	log.Println("listening on :" + cfg.HTTPPort)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown: ", err)
	}
}
