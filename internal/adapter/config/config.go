package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	App         *App
	Database    *Database
	HTTP        *HTTP
	Auth        *Auth
	Inventory   *Collaborator
	Geography   *Collaborator
	Pricing     *Collaborator
	Routing     *Collaborator
	Notify      *Notify
	Cache       *Cache
	Journal     *Journal
	Fulfillment *Fulfillment
	Telemetry   *Telemetry
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Auth struct {
	// TokenKey is a hex encoded v4 local key. Empty means a random key per process.
	TokenKey string        `env:"TOKEN_KEY"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Collaborator is the address of an external service. Empty address disables
// the client where the collaborator is optional.
type Collaborator struct {
	HostString string
	Timeout    time.Duration
}

type inventoryEnv struct {
	HostString string        `env:"INVENTORY_ADDRESS"`
	Timeout    time.Duration `env:"INVENTORY_TIMEOUT" envDefault:"2s"`
}

type geographyEnv struct {
	HostString string        `env:"GEOGRAPHY_ADDRESS"`
	Timeout    time.Duration `env:"GEOGRAPHY_TIMEOUT" envDefault:"2s"`
}

type pricingEnv struct {
	HostString string        `env:"PRICING_ADDRESS"`
	Timeout    time.Duration `env:"PRICING_TIMEOUT" envDefault:"1s"`
}

type routingEnv struct {
	HostString string        `env:"ROUTING_ADDRESS"`
	Timeout    time.Duration `env:"ROUTING_TIMEOUT" envDefault:"500ms"`
}

type Notify struct {
	Brokers []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string        `env:"KAFKA_TOPIC" envDefault:"order-events"`
	Timeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"3s"`
}

type Cache struct {
	RedisAddr  string        `env:"REDIS_ADDR"`
	GeocodeTTL time.Duration `env:"GEOCODE_TTL" envDefault:"24h"`
}

type Journal struct {
	Path string `env:"JOURNAL_PATH" envDefault:"reconciliation.db"`
}

type Fulfillment struct {
	FanOut      int    `env:"FAN_OUT" envDefault:"4"`
	ShippingFee string `env:"SHIPPING_FEE" envDefault:"0"`
	TaxRate     string `env:"TAX_RATE" envDefault:"0"`
}

type Telemetry struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"fulfillment"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var app App
	var auth Auth
	var inventory inventoryEnv
	var geography geographyEnv
	var pricing pricingEnv
	var routing routingEnv
	var notify Notify
	var cache Cache
	var journal Journal
	var fulfillment Fulfillment
	var telemetry Telemetry

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&inventory.HostString, "i", "", "Inventory service address")
	flag.StringVar(&geography.HostString, "g", "", "Geography service address")
	flag.StringVar(&pricing.HostString, "p", "", "Pricing service address")
	flag.StringVar(&routing.HostString, "r", "", "Routing service address")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	for name, section := range map[string]any{
		"database":    &db,
		"http":        &http,
		"app":         &app,
		"auth":        &auth,
		"inventory":   &inventory,
		"geography":   &geography,
		"pricing":     &pricing,
		"routing":     &routing,
		"notify":      &notify,
		"cache":       &cache,
		"journal":     &journal,
		"fulfillment": &fulfillment,
		"telemetry":   &telemetry,
	} {
		if err := env.Parse(section); err != nil {
			return nil, fmt.Errorf("error parsing %s config: %w", name, err)
		}
	}

	config := Config{
		App:         &app,
		Database:    &db,
		HTTP:        &http,
		Auth:        &auth,
		Inventory:   &Collaborator{HostString: inventory.HostString, Timeout: inventory.Timeout},
		Geography:   &Collaborator{HostString: geography.HostString, Timeout: geography.Timeout},
		Pricing:     &Collaborator{HostString: pricing.HostString, Timeout: pricing.Timeout},
		Routing:     &Collaborator{HostString: routing.HostString, Timeout: routing.Timeout},
		Notify:      &notify,
		Cache:       &cache,
		Journal:     &journal,
		Fulfillment: &fulfillment,
		Telemetry:   &telemetry,
	}

	return &config, nil
}
