package main

import (
	"pizza_delivery/internal/config" // Custom import path (Config)
	"pizza_delivery/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg)
}
