package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/WemXPro/service-virtfusion/internal/client"
	"github.com/WemXPro/service-virtfusion/internal/config"
	"github.com/WemXPro/service-virtfusion/internal/db"
	"github.com/WemXPro/service-virtfusion/internal/http"
	"github.com/WemXPro/service-virtfusion/internal/repository"
	"github.com/WemXPro/service-virtfusion/internal/service"
	"github.com/WemXPro/service-virtfusion/internal/virtfusion"
)

func main() {
	log.Println("Starting VirtFusion service...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	pool, err := db.NewPool(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	logRepo := repository.NewLogRepository(pool)

	// Initialize clients
	panelClient := virtfusion.NewClient(settingsRepo)
	mailClient := client.NewMailClient(cfg.Mail.ServiceURL, cfg.InternalSecret)

	// Initialize services
	provisionService := service.NewProvisionService(
		panelClient,
		orderRepo,
		userRepo,
		accountRepo,
		packageRepo,
		settingsRepo,
		mailClient,
		logRepo,
	)

	// Initialize HTTP server
	server := http.NewServer(cfg, provisionService, settingsRepo, logRepo)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server exited")
}
