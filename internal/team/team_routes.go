package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mw "github.com/crickside/pitchbook/internal/middleware"
)

// TeamRoutes sets up roster routes. Reads are public; writes require a token.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	teamRepo := NewGormTeamRepository(db)
	teamController := NewTeamController(teamRepo)

	teams := router.Group("/teams")

	readRoutes := teams.Group("")
	readRoutes.Use(mw.OptionalAuth(jwtSecret))
	{
		readRoutes.GET("", teamController.GetTeams)
		readRoutes.GET("/:id", teamController.GetTeamByID)
		readRoutes.GET("/:id/players", teamController.GetTeamPlayers)
	}

	authRoutes := teams.Group("")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", teamController.CreateTeam)
		authRoutes.POST("/:id/players", teamController.AddPlayer)
	}
}
