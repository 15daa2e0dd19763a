package main

import (
	"log"

	"github.com/example/laundrypro/internal/config"
	"github.com/example/laundrypro/internal/mockapi"
)

func main() {
	cfg := config.Load()

	server, err := mockapi.New(mockapi.Config{
		JWTSecret:     cfg.Mock.JWTSecret,
		AccessTTL:     cfg.Mock.AccessTTL,
		AdminPhone:    cfg.Mock.AdminPhone,
		AdminPassword: cfg.Mock.AdminPassword,
		SeedCatalog:   true,
	})
	if err != nil {
		log.Fatalf("mockapi.New error: %v", err)
	}

	log.Printf("Starting mock API on :%s (dev OTP code %s)", cfg.Mock.Port, mockapi.DevOTPCode)
	if err := server.Listen(":" + cfg.Mock.Port); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
