package main

import (
	"log"

	"lunchvote-backend/internal/config"
	"lunchvote-backend/internal/database"
	"lunchvote-backend/internal/router"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := router.New(cfg)

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
