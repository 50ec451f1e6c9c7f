package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Gateway  *Gateway
	Shipping *Shipping
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

// Gateway holds the MoMo merchant credentials and callback URLs.
type Gateway struct {
	PartnerCode string `env:"MOMO_PARTNER_CODE"`
	PartnerName string `env:"MOMO_PARTNER_NAME" envDefault:"Furnishop"`
	StoreID     string `env:"MOMO_STORE_ID" envDefault:"FurnishopStore"`
	AccessKey   string `env:"MOMO_ACCESS_KEY"`
	SecretKey   string `env:"MOMO_SECRET_KEY"`
	Endpoint    string `env:"MOMO_ENDPOINT"`
	RedirectURL string `env:"MOMO_REDIRECT_URL"`
	IPNURL      string `env:"MOMO_IPN_URL"`
}

type Shipping struct {
	FlatFee string `env:"SHIPPING_FLAT_FEE" envDefault:"30000"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var gateway Gateway
	var shipping Shipping
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&gateway.Endpoint, "g", "", "Payment gateway endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&gateway)
	if err != nil {
		return nil, fmt.Errorf("error parsing gateway config: %w", err)
	}
	err = env.Parse(&shipping)
	if err != nil {
		return nil, fmt.Errorf("error parsing shipping config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Gateway:  &gateway,
		Shipping: &shipping,
		App:      &app,
	}

	return &config, nil
}
