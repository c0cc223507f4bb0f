package match

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/team"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/pkg/responses"
)

// MatchController handles match-related HTTP requests.
type MatchController struct {
	repo     MatchRepository
	teamRepo team.TeamRepository
}

func NewMatchController(repo MatchRepository, teamRepo team.TeamRepository) *MatchController {
	return &MatchController{repo: repo, teamRepo: teamRepo}
}

// --- DTOs for requests ---

// CreateMatchRequest defines the request payload for creating a match.
type CreateMatchRequest struct {
	Name             string `json:"name" binding:"required,min=3,max=200"`
	TeamAID          uint   `json:"team_a_id" binding:"required"`
	TeamBID          uint   `json:"team_b_id" binding:"required"`
	OversLimit       int    `json:"overs_limit" binding:"required,min=1"`
	TossWinnerTeamID *uint  `json:"toss_winner_team_id,omitempty"`
	TossDecision     string `json:"toss_decision,omitempty" binding:"omitempty,oneof=bat bowl"`
}

// UpdateMatchStatusRequest defines the payload for a direct status set.
type UpdateMatchStatusRequest struct {
	Status MatchStatus `json:"status" binding:"required,oneof=upcoming ongoing completed"`
}

// EndMatchRequest defines the payload for a forceful end.
type EndMatchRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

// CreateMatch creates a match owned by the calling umpire.
func (mc *MatchController) CreateMatch(c *gin.Context) {
	actx := auth.FromGin(c)
	if actx.Role != user.RoleUmpire && !actx.IsAdmin() {
		responses.ErrorResponse(c, http.StatusForbidden, "Only umpires and admins may create matches")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	for _, teamID := range []uint{req.TeamAID, req.TeamBID} {
		t, err := mc.teamRepo.GetTeamByID(teamID)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to resolve team")
			return
		}
		if t == nil {
			responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
			return
		}
	}

	m := Match{
		Name:             req.Name,
		CreatedByID:      actx.UserID,
		TeamAID:          req.TeamAID,
		TeamBID:          req.TeamBID,
		OversLimit:       req.OversLimit,
		TossWinnerTeamID: req.TossWinnerTeamID,
		TossDecision:     req.TossDecision,
		Status:           StatusMatchUpcoming,
	}
	if err := mc.repo.CreateMatch(&m); err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{"match_id": m.ID, "umpire_id": actx.UserID}).Info("match created")
	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Match created successfully",
		"match":   m,
	})
}

// GetMatches lists matches. Public read, no ownership filtering.
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status = ?"] = status
	}

	matches, total, err := mc.repo.GetMatches(filters, page, pageSize)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"matches": matches,
		"total":   total,
	})
}

// GetMatchByID retrieves one match. Public read.
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	m, err := mc.repo.GetMatchByID(uint(id))
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	if m == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}
	responses.SuccessResponse(c, http.StatusOK, m)
}

// UpdateMatchStatus applies a direct status change (owner/admin only).
func (mc *MatchController) UpdateMatchStatus(c *gin.Context) {
	actx := auth.FromGin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req UpdateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	m, err := mc.repo.SetStatus(actx, uint(id), req.Status)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match status updated",
		"match":   m,
	})
}

// EndMatch forcefully completes a match.
func (mc *MatchController) EndMatch(c *gin.Context) {
	actx := auth.FromGin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	// An empty body is fine: ending without a comment is the common case.
	var req EndMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.ValidationErrorResponse(c, err)
		return
	}

	m, err := mc.repo.ForcefulEnd(actx, uint(id), req.Comment)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{"match_id": m.ID, "ended_by": actx.Role}).Info("match forcefully ended")
	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match ended",
		"match":   m,
	})
}

// UndoCancellation reverts a forceful end within the undo window.
func (mc *MatchController) UndoCancellation(c *gin.Context) {
	actx := auth.FromGin(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	m, err := mc.repo.UndoCancellation(actx, uint(id))
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{"match_id": m.ID}).Info("match end reverted")
	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match restored to ongoing",
		"match":   m,
	})
}
