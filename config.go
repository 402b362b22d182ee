package main

import (
	"os"
)

// Config holds all environment-derived settings. It is loaded once in main
// and injected instead of reading os.Getenv at call sites, so missing relay
// credentials are an explicit state the handlers can branch on.
type Config struct {
	AppPort string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string

	// Instagram profile lookup relay
	InstagramAPIBase string
	InstagramAPIKey  string

	// WhatsApp gateway relay (Evolution-style API)
	WhatsAppAPIURL   string
	WhatsAppAPIKey   string
	WhatsAppInstance string
	WhatsAppNumber   string
}

var config *Config

func LoadConfig() *Config {
	cfg := &Config{
		AppPort: os.Getenv("APP_PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),

		InstagramAPIBase: os.Getenv("INSTAGRAM_API_BASE"),
		InstagramAPIKey:  os.Getenv("INSTAGRAM_API_KEY"),

		WhatsAppAPIURL:   os.Getenv("EVOLUTION_API_URL"),
		WhatsAppAPIKey:   os.Getenv("EVOLUTION_API_KEY"),
		WhatsAppInstance: os.Getenv("EVOLUTION_INSTANCE"),
		WhatsAppNumber:   os.Getenv("WHATSAPP_NUMBER"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "2121"
	}
	if cfg.InstagramAPIBase == "" {
		cfg.InstagramAPIBase = "https://api.instagramlookup.dev"
	}

	return cfg
}

// InstagramConfigured reports whether the avatar relay can reach its upstream.
func (c *Config) InstagramConfigured() bool {
	return c.InstagramAPIKey != ""
}

// WhatsAppConfigured reports whether the message relay can reach its gateway.
// All four settings are required; with any of them missing the feedback
// endpoint degrades to a local acknowledgment.
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppAPIURL != "" && c.WhatsAppAPIKey != "" &&
		c.WhatsAppInstance != "" && c.WhatsAppNumber != ""
}
