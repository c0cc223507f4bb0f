package scoring

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/crickside/pitchbook/internal/match"
	mw "github.com/crickside/pitchbook/internal/middleware"
)

// ScoringRoutes sets up the innings, ball, extra, wicket and scoreboard routes
// under /matches/:id. Reads are public; mutations require a bearer token and
// pass the match-ownership predicate inside the repository.
func ScoringRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	repo := NewGormScoringRepository(db)
	matchRepo := match.NewGormMatchRepository(db)
	controller := NewScoringController(repo, matchRepo)

	matches := router.Group("/matches/:id")

	readRoutes := matches.Group("")
	readRoutes.Use(mw.OptionalAuth(jwtSecret))
	{
		readRoutes.GET("/innings", controller.GetMatchInnings)
		readRoutes.GET("/innings/:inningsId/balls", controller.ListBalls)
		readRoutes.GET("/innings/:inningsId/extras", controller.ListExtras)
		readRoutes.GET("/innings/:inningsId/wickets", controller.ListWickets)
		readRoutes.GET("/scoreboard", controller.GetScoreboard)
	}

	authRoutes := matches.Group("")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("/innings", controller.StartInnings)
		authRoutes.POST("/innings/:inningsId/balls", controller.RecordBall)
		authRoutes.DELETE("/innings/:inningsId/balls/:ballId", controller.DeleteBall)
		authRoutes.POST("/innings/:inningsId/extras", controller.RecordExtra)
		authRoutes.DELETE("/innings/:inningsId/extras/:extraId", controller.DeleteExtra)
		authRoutes.POST("/innings/:inningsId/wickets", controller.RecordWicket)
		authRoutes.DELETE("/innings/:inningsId/wickets/:wicketId", controller.DeleteWicket)
	}
}
