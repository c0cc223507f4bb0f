package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mw "github.com/crickside/pitchbook/internal/middleware"
	"github.com/crickside/pitchbook/internal/team"
)

// MatchRoutes sets up match lifecycle routes. Reads are public; every mutation
// goes through the bearer-token middleware and the ownership predicate in the
// repository.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, teamRepo team.TeamRepository, jwtSecret string) {
	matchRepo := NewGormMatchRepository(db)
	matchController := NewMatchController(matchRepo, teamRepo)

	matches := router.Group("/matches")

	readRoutes := matches.Group("")
	readRoutes.Use(mw.OptionalAuth(jwtSecret))
	{
		readRoutes.GET("", matchController.GetMatches)
		readRoutes.GET("/:id", matchController.GetMatchByID)
	}

	authRoutes := matches.Group("")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.PATCH("/:id", matchController.UpdateMatchStatus)
		authRoutes.POST("/:id/end-match", matchController.EndMatch)
		authRoutes.POST("/:id/undo-cancellation", matchController.UndoCancellation)
	}
}
