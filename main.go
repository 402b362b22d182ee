package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config = LoadConfig()
	InitDB(config)
	r := InitRoutes()

	if !config.WhatsAppConfigured() {
		logger.Warn("WhatsApp gateway not configured, feedback reports will be acknowledged locally")
	}
	if !config.InstagramConfigured() {
		logger.Warn("Instagram API key not configured, avatar lookups will fail with 500")
	}

	log.Printf("Starting server on port %s", config.AppPort)
	err = http.ListenAndServe(":"+config.AppPort, r)
	if err != nil {
		log.Fatal(err)
	}
}
