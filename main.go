package main

import (
	"log"

	"github.com/crickside/pitchbook/config"
	"github.com/crickside/pitchbook/internal/match"
	"github.com/crickside/pitchbook/internal/scoring"
	"github.com/crickside/pitchbook/internal/team"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/routes"
)

// @title Pitchbook REST API
// @version 1.0
// @description Ball-by-ball cricket match scoring server 🏏
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{},
		&team.Team{}, &team.Player{},
		&match.Match{},
		&scoring.Innings{}, &scoring.Over{}, &scoring.Ball{},
		&scoring.Extra{}, &scoring.Wicket{},
		&scoring.BattingStats{}, &scoring.BowlingStats{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
