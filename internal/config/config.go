package config

import (
	"fmt"
	"log"
	"time"

	"github.com/William2897/aoy-registration-form/internal/pricing"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	FrontendURL  string `mapstructure:"FRONTEND_URL"`
	EnableCORS   bool   `mapstructure:"ENABLE_CORS"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	SendgridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendgridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendgridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`

	EventName     string `mapstructure:"EVENT_NAME"`
	EventDates    string `mapstructure:"EVENT_DATES"`
	EventVenue    string `mapstructure:"EVENT_VENUE"`
	EventTimezone string `mapstructure:"EVENT_TIMEZONE"`

	EarlyBirdEnd          string  `mapstructure:"EARLY_BIRD_END"`
	EarlyBirdAmount       float64 `mapstructure:"EARLY_BIRD_AMOUNT"`
	WalkInStart           string  `mapstructure:"WALK_IN_START"`
	WalkInEnd             string  `mapstructure:"WALK_IN_END"`
	FamilyDiscountPercent float64 `mapstructure:"FAMILY_DISCOUNT_PERCENT"`
	TshirtPrice           float64 `mapstructure:"TSHIRT_PRICE"`

	RateWorkingAdult    float64 `mapstructure:"RATE_WORKING_ADULT"`
	RateHomemaker       float64 `mapstructure:"RATE_HOMEMAKER"`
	RateStudent         float64 `mapstructure:"RATE_STUDENT"`
	RateMinistrySalary  float64 `mapstructure:"RATE_MINISTRY_SALARY"`
	RateMinistryStipend float64 `mapstructure:"RATE_MINISTRY_STIPEND"`
	RateWalkInFull      float64 `mapstructure:"RATE_WALK_IN_FULL"`
	RateWalkInPartial   float64 `mapstructure:"RATE_WALK_IN_PARTIAL"`
	RateChild5To12      float64 `mapstructure:"RATE_CHILD_5_12"`
	RateChildBelow4     float64 `mapstructure:"RATE_CHILD_BELOW_4"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "registrations.db")
	viper.SetDefault("FRONTEND_URL", "https://aoy-registration.netlify.app")
	viper.SetDefault("ENABLE_CORS", true)

	viper.SetDefault("EVENT_NAME", "AOY 2025")
	viper.SetDefault("EVENT_DATES", "5-8 June, 2025")
	viper.SetDefault("EVENT_VENUE", "Penang")
	viper.SetDefault("EVENT_TIMEZONE", "Asia/Kuala_Lumpur")

	viper.SetDefault("EARLY_BIRD_END", "2025-03-16")
	viper.SetDefault("EARLY_BIRD_AMOUNT", 20.0)
	viper.SetDefault("WALK_IN_START", "2025-06-05")
	viper.SetDefault("WALK_IN_END", "2025-06-08")
	viper.SetDefault("FAMILY_DISCOUNT_PERCENT", 5.0)
	viper.SetDefault("TSHIRT_PRICE", 30.0)

	viper.SetDefault("RATE_WORKING_ADULT", 240.0)
	viper.SetDefault("RATE_HOMEMAKER", 180.0)
	viper.SetDefault("RATE_STUDENT", 180.0)
	viper.SetDefault("RATE_MINISTRY_SALARY", 240.0)
	viper.SetDefault("RATE_MINISTRY_STIPEND", 180.0)
	viper.SetDefault("RATE_WALK_IN_FULL", 240.0)
	viper.SetDefault("RATE_WALK_IN_PARTIAL", 100.0)
	viper.SetDefault("RATE_CHILD_5_12", 50.0)
	viper.SetDefault("RATE_CHILD_BELOW_4", 0.0)

	viper.BindEnv("CLOUDINARY_CLOUD_NAME")
	viper.BindEnv("CLOUDINARY_API_KEY")
	viper.BindEnv("CLOUDINARY_API_SECRET")
	viper.BindEnv("SENDGRID_API_KEY")
	viper.BindEnv("SENDGRID_FROM_EMAIL")
	viper.BindEnv("SENDGRID_FROM_NAME")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// PricingConfig assembles the engine rule set from the flat env surface.
// Date-only bounds are interpreted in the event timezone: the early-bird
// cutoff and walk-in end run to the last second of their day.
func (c *Config) PricingConfig() (pricing.Config, error) {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("load event timezone: %w", err)
	}

	earlyBirdEnd, err := endOfDay(c.EarlyBirdEnd, loc)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("parse EARLY_BIRD_END: %w", err)
	}
	walkInStart, err := time.ParseInLocation("2006-01-02", c.WalkInStart, loc)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("parse WALK_IN_START: %w", err)
	}
	walkInEnd, err := endOfDay(c.WalkInEnd, loc)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("parse WALK_IN_END: %w", err)
	}

	return pricing.Config{
		Rates: map[pricing.Category]float64{
			pricing.WorkingAdult:    c.RateWorkingAdult,
			pricing.Homemaker:       c.RateHomemaker,
			pricing.Student:         c.RateStudent,
			pricing.MinistrySalary:  c.RateMinistrySalary,
			pricing.MinistryStipend: c.RateMinistryStipend,
			pricing.WalkInFull:      c.RateWalkInFull,
			pricing.WalkInPartial:   c.RateWalkInPartial,
			pricing.Child5To12:      c.RateChild5To12,
			pricing.ChildBelow4:     c.RateChildBelow4,
		},
		TshirtUnitPrice:       c.TshirtPrice,
		EarlyBirdAmount:       c.EarlyBirdAmount,
		EarlyBirdEnd:          earlyBirdEnd,
		WalkInWindow:          pricing.Window{Start: walkInStart, End: walkInEnd},
		FamilyDiscountPercent: c.FamilyDiscountPercent,
	}, nil
}

func endOfDay(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}
