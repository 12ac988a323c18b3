package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/felipenb/go_sales/internal/httpapi"
	"github.com/felipenb/go_sales/internal/repository"
	"github.com/felipenb/go_sales/internal/service"
)

type Config struct {
	HTTPPort        string
	DB              repository.Credentials
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		DB: repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "sales"),
			Password:          getEnv("DB_PASSWORD", "sales"),
			DBName:            getEnv("DB_NAME", "sales"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func main() {
	cfg := loadConfig()

	db, err := repository.Open(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if e2 := repository.RunMigrations(db, &cfg.DB); e2 != nil {
		log.Fatalf("Failed to run migrations: %v", e2)
	}

	cartRepo := repository.NewCartRepo(db)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	cartHandler := httpapi.NewCartHandler(service.NewCartService(cartRepo, productRepo, userRepo))
	productHandler := httpapi.NewProductHandler(service.NewProductService(productRepo))
	userHandler := httpapi.NewUserHandler(service.NewUserService(userRepo))

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpapi.NewRouter(cartHandler, productHandler, userHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if e3 := server.ListenAndServe(); e3 != nil && !errors.Is(e3, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", e3)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if e4 := server.Shutdown(ctx); e4 != nil {
		log.Fatalf("Server forced to shutdown: %v", e4)
	}
	log.Println("Server exited")
}
