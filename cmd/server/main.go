package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/William2897/aoy-registration-form/internal/config"
	"github.com/William2897/aoy-registration-form/internal/database"
	"github.com/William2897/aoy-registration-form/internal/handlers"
	"github.com/William2897/aoy-registration-form/internal/mailer"
	"github.com/William2897/aoy-registration-form/internal/notifier"
	"github.com/William2897/aoy-registration-form/internal/pricing"
	"github.com/William2897/aoy-registration-form/internal/registration"
	"github.com/William2897/aoy-registration-form/internal/upload"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Build the pricing engine; a broken rate table must stop the boot.
	pricingCfg, err := cfg.PricingConfig()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	engine, err := pricing.NewEngine(pricingCfg)
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}

	uploader, err := upload.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize uploader: %v", err)
	}

	confirmationMailer := mailer.NewSendgridMailer(
		cfg.SendgridAPIKey, cfg.SendgridFromEmail, cfg.SendgridFromName,
		cfg.EventName, cfg.EventDates, cfg.EventVenue,
	)

	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	}

	// Initialize Handlers
	builder := registration.NewBuilder(engine)
	var committeeNotifier notifier.Notifier
	if discordNotifier != nil {
		committeeNotifier = discordNotifier
	}
	registrationHandler := handlers.NewRegistrationHandler(db, builder, uploader, confirmationMailer, committeeNotifier)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, registrationHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
