package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/pkg/responses"
)

// TeamController handles roster HTTP requests.
type TeamController struct {
	repo TeamRepository
}

func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
	SquadSize   int    `json:"squad_size" binding:"omitempty,min=2,max=16"`
}

type AddPlayerRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	JerseyNumber int    `json:"jersey_number" binding:"omitempty,min=0,max=999"`
	Role         string `json:"role" binding:"omitempty,oneof=batsman bowler all_rounder wicket_keeper"`
}

// CreateTeam creates a team owned by the calling umpire or admin.
func (tc *TeamController) CreateTeam(c *gin.Context) {
	actx := auth.FromGin(c)
	if actx.Role != user.RoleUmpire && !actx.IsAdmin() {
		responses.ErrorResponse(c, http.StatusForbidden, "Only umpires and admins may create teams")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	t := Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: actx.UserID,
		SquadSize:   req.SquadSize,
	}
	if t.SquadSize == 0 {
		t.SquadSize = DefaultSquadSize
	}
	if err := tc.repo.CreateTeam(&t); err != nil {
		log.WithError(err).Error("create team failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team")
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    t,
	})
}

// GetTeams lists teams. Public read.
func (tc *TeamController) GetTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	teams, total, err := tc.repo.GetTeams(page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch teams")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"teams": teams,
		"total": total,
	})
}

// GetTeamByID retrieves one team with its roster. Public read.
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team")
		return
	}
	if t == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, t)
}

// AddPlayer appends a player to the roster of a team the caller owns.
func (tc *TeamController) AddPlayer(c *gin.Context) {
	actx := auth.FromGin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	t, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team")
		return
	}
	if t == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}
	if !actx.CanScore(t.CreatedByID) {
		responses.ErrorResponse(c, http.StatusForbidden, "You do not own this team")
		return
	}

	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	p := Player{
		TeamID:       t.ID,
		Name:         req.Name,
		JerseyNumber: req.JerseyNumber,
		Role:         req.Role,
	}
	if p.Role == "" {
		p.Role = "batsman"
	}
	if err := tc.repo.AddPlayer(&p); err != nil {
		log.WithError(err).Error("add player failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to add player")
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Player added successfully",
		"player":  p,
	})
}

// GetTeamPlayers lists a team's roster. Public read.
func (tc *TeamController) GetTeamPlayers(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	players, err := tc.repo.GetTeamPlayers(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch players")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, players)
}
