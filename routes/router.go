package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/crickside/pitchbook/config"
	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/match"
	"github.com/crickside/pitchbook/internal/scoring"
	"github.com/crickside/pitchbook/internal/team"
)

// SetupRoutes builds the engine with all API route groups mounted.
func SetupRoutes(appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "pitchbook",
			"status":  "ok",
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := config.DB
	jwtSecret := appConfig.JWT.AccessTokenSecret

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	team.TeamRoutes(api, db, jwtSecret)
	match.MatchRoutes(api, db, team.NewGormTeamRepository(db), jwtSecret)
	scoring.ScoringRoutes(api, db, jwtSecret)

	return r
}
