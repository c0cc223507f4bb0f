package scoring

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/match"
	"github.com/crickside/pitchbook/pkg/responses"
)

// ScoringController handles the ball-by-ball scoring endpoints.
type ScoringController struct {
	repo      ScoringRepository
	matchRepo match.MatchRepository
}

func NewScoringController(repo ScoringRepository, matchRepo match.MatchRepository) *ScoringController {
	return &ScoringController{repo: repo, matchRepo: matchRepo}
}

// --- DTOs for requests ---

// StartInningsRequest defines the payload for opening an innings.
type StartInningsRequest struct {
	TeamID           uint `json:"team_id" binding:"required"`
	InningsNumber    int  `json:"innings_number" binding:"omitempty,oneof=1 2"`
	OpeningBatsmanID uint `json:"opening_batsman_id" binding:"required"`
	OpeningBowlerID  uint `json:"opening_bowler_id" binding:"required"`
}

// RecordBallRequest defines the payload for recording a delivery.
type RecordBallRequest struct {
	OverNumber   int      `json:"over_number" binding:"min=0"`
	StrikerID    uint     `json:"striker_player_id" binding:"required"`
	NonStrikerID *uint    `json:"non_striker_player_id,omitempty"`
	BowlerID     uint     `json:"bowler_id" binding:"required"`
	Runs         int      `json:"runs" binding:"min=0"` // 0..6 applies to legal balls only, checked type-aware in the repo
	BallType     BallType `json:"ball_type" binding:"omitempty,oneof=legal no_ball wide"`
}

// RecordExtraRequest defines the payload for recording an extra.
type RecordExtraRequest struct {
	ExtraType  ExtraType `json:"extra_type" binding:"required,oneof=wide no_ball bye leg_bye"`
	Runs       int       `json:"runs" binding:"min=0"`
	OverNumber *int      `json:"over_number,omitempty"`
}

// RecordWicketRequest defines the payload for recording a dismissal. BallID is
// optional; without it a zero-run legal delivery is recorded implicitly.
type RecordWicketRequest struct {
	BallID      *uint         `json:"ball_id,omitempty"`
	PlayerOutID uint          `json:"player_out_id" binding:"required"`
	BowlerID    uint          `json:"bowler_id" binding:"required"`
	FielderID   *uint         `json:"fielder_id,omitempty"`
	WicketType  DismissalType `json:"wicket_type" binding:"required,oneof=bowled caught lbw run_out stumped hit_wicket"`
}

// --- helpers ---

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// inningsInMatch resolves the innings path pair, confirming the innings
// belongs to the addressed match before any read is served from it.
func (sc *ScoringController) inningsInMatch(c *gin.Context) (matchID, inningsID uint, ok bool) {
	matchID, ok = pathID(c, "id")
	if !ok {
		return 0, 0, false
	}
	inningsID, ok = pathID(c, "inningsId")
	if !ok {
		return 0, 0, false
	}

	all, err := sc.repo.GetMatchInnings(matchID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return 0, 0, false
	}
	for _, innings := range all {
		if innings.ID == inningsID {
			return matchID, inningsID, true
		}
	}
	responses.ErrorResponse(c, http.StatusNotFound, "Innings not found")
	return 0, 0, false
}

// oversNotation renders total balls in the conventional O.B form, e.g. 43
// legal balls is "7.1".
func oversNotation(totalBalls int) string {
	return fmt.Sprintf("%d.%d", totalBalls/BallsPerOver, totalBalls%BallsPerOver)
}

// --- Innings handlers ---

// StartInnings opens an innings for the match.
func (sc *ScoringController) StartInnings(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req StartInningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	innings, err := sc.repo.StartInnings(actx, matchID, StartInningsParams{
		TeamID:           req.TeamID,
		InningsNumber:    req.InningsNumber,
		OpeningBatsmanID: req.OpeningBatsmanID,
		OpeningBowlerID:  req.OpeningBowlerID,
	})
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{
		"match_id":       matchID,
		"innings_id":     innings.ID,
		"innings_number": innings.InningsNumber,
	}).Info("innings started")
	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Innings started",
		"innings": innings,
	})
}

// GetMatchInnings lists a match's innings. Public read.
func (sc *ScoringController) GetMatchInnings(c *gin.Context) {
	matchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	innings, err := sc.repo.GetMatchInnings(matchID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"innings": innings})
}

// --- Ball handlers ---

// RecordBall records one delivery and returns it with the next-striker hint.
func (sc *ScoringController) RecordBall(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	var req RecordBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}
	if req.BallType == "" {
		req.BallType = BallLegal
	}

	result, err := sc.repo.RecordBall(actx, matchID, inningsID, BallParams{
		OverNumber:   req.OverNumber,
		StrikerID:    req.StrikerID,
		NonStrikerID: req.NonStrikerID,
		BowlerID:     req.BowlerID,
		Runs:         req.Runs,
		BallType:     req.BallType,
	})
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message":             "Ball recorded",
		"ball":                result.Ball,
		"next_striker_id":     result.NextStrikerID,
		"next_non_striker_id": result.NextNonStrikerID,
	})
}

// DeleteBall removes a delivery and reverses its aggregate contribution.
func (sc *ScoringController) DeleteBall(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}
	ballID, ok := pathID(c, "ballId")
	if !ok {
		return
	}

	if err := sc.repo.DeleteBall(actx, matchID, inningsID, ballID); err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{"innings_id": inningsID, "ball_id": ballID}).Info("ball deleted")
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Ball deleted"})
}

// ListBalls lists an innings' deliveries. Public read.
func (sc *ScoringController) ListBalls(c *gin.Context) {
	_, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	balls, err := sc.repo.ListBalls(inningsID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"balls": balls})
}

// --- Extra handlers ---

// RecordExtra records an extra against the innings.
func (sc *ScoringController) RecordExtra(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	var req RecordExtraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	extra, err := sc.repo.RecordExtra(actx, matchID, inningsID, ExtraParams{
		ExtraType:  req.ExtraType,
		Runs:       req.Runs,
		OverNumber: req.OverNumber,
	})
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Extra recorded",
		"extra":   extra,
	})
}

// DeleteExtra removes an extra and reverses its aggregate contribution.
func (sc *ScoringController) DeleteExtra(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}
	extraID, ok := pathID(c, "extraId")
	if !ok {
		return
	}

	if err := sc.repo.DeleteExtra(actx, matchID, inningsID, extraID); err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Extra deleted"})
}

// ListExtras lists an innings' extras. Public read.
func (sc *ScoringController) ListExtras(c *gin.Context) {
	_, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	extras, err := sc.repo.ListExtras(inningsID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"extras": extras})
}

// --- Wicket handlers ---

// RecordWicket records a dismissal.
func (sc *ScoringController) RecordWicket(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	var req RecordWicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	wicket, err := sc.repo.RecordWicket(actx, matchID, inningsID, WicketParams{
		BallID:      req.BallID,
		PlayerOutID: req.PlayerOutID,
		BowlerID:    req.BowlerID,
		FielderID:   req.FielderID,
		WicketType:  req.WicketType,
	})
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	log.WithFields(log.Fields{
		"innings_id":  inningsID,
		"wicket_id":   wicket.ID,
		"wicket_type": wicket.WicketType,
	}).Info("wicket recorded")
	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Wicket recorded",
		"wicket":  wicket,
	})
}

// DeleteWicket removes a dismissal and clears the ball's wicket flag.
func (sc *ScoringController) DeleteWicket(c *gin.Context) {
	actx := auth.FromGin(c)
	matchID, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}
	wicketID, ok := pathID(c, "wicketId")
	if !ok {
		return
	}

	if err := sc.repo.DeleteWicket(actx, matchID, inningsID, wicketID); err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Wicket deleted"})
}

// ListWickets lists an innings' dismissals. Public read.
func (sc *ScoringController) ListWickets(c *gin.Context) {
	_, inningsID, ok := sc.inningsInMatch(c)
	if !ok {
		return
	}

	wickets, err := sc.repo.ListWickets(inningsID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"wickets": wickets})
}

// --- Scoreboard read ---

// battingLine is one batter's scoreboard row.
type battingLine struct {
	PlayerID   uint    `json:"player_id"`
	Runs       int     `json:"runs"`
	BallsFaced int     `json:"balls_faced"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
}

// bowlingLine is one bowler's scoreboard row.
type bowlingLine struct {
	PlayerID uint    `json:"player_id"`
	Overs    string  `json:"overs"`
	Runs     int     `json:"runs"`
	Wickets  int     `json:"wickets"`
	Economy  float64 `json:"economy"`
}

// inningsBoard is one innings' scoreboard section, served entirely from
// stored aggregates.
type inningsBoard struct {
	Innings Innings       `json:"innings"`
	Overs   string        `json:"overs"`
	RunRate float64       `json:"run_rate"`
	Batting []battingLine `json:"batting"`
	Bowling []bowlingLine `json:"bowling"`
}

// GetScoreboard serves the full match scoreboard: both innings with per-player
// batting and bowling lines. Public read.
func (sc *ScoringController) GetScoreboard(c *gin.Context) {
	matchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	m, err := sc.matchRepo.GetMatchByID(matchID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}
	if m == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}

	all, err := sc.repo.GetMatchInnings(matchID)
	if err != nil {
		responses.AppErrorResponse(c, err)
		return
	}

	boards := make([]inningsBoard, 0, len(all))
	for _, innings := range all {
		board, err := sc.buildInningsBoard(innings)
		if err != nil {
			responses.AppErrorResponse(c, err)
			return
		}
		boards = append(boards, *board)
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"match":   m,
		"innings": boards,
	})
}

func (sc *ScoringController) buildInningsBoard(innings Innings) (*inningsBoard, error) {
	batting, err := sc.repo.GetBattingStats(innings.ID)
	if err != nil {
		return nil, err
	}
	bowling, err := sc.repo.GetBowlingStats(innings.ID)
	if err != nil {
		return nil, err
	}

	board := inningsBoard{
		Innings: innings,
		Overs:   oversNotation(innings.TotalBalls),
		Batting: make([]battingLine, 0, len(batting)),
		Bowling: make([]bowlingLine, 0, len(bowling)),
	}
	if innings.TotalBalls > 0 {
		board.RunRate = round2(float64(innings.TotalRuns) * BallsPerOver / float64(innings.TotalBalls))
	}

	for _, s := range batting {
		line := battingLine{
			PlayerID:   s.PlayerID,
			Runs:       s.Runs,
			BallsFaced: s.BallsFaced,
			Fours:      s.Fours,
			Sixes:      s.Sixes,
		}
		if s.BallsFaced > 0 {
			line.StrikeRate = round2(float64(s.Runs) * 100 / float64(s.BallsFaced))
		}
		board.Batting = append(board.Batting, line)
	}

	for _, s := range bowling {
		line := bowlingLine{
			PlayerID: s.PlayerID,
			Overs:    oversNotation(s.Balls),
			Runs:     s.Runs,
			Wickets:  s.Wickets,
		}
		if s.Balls > 0 {
			line.Economy = round2(float64(s.Runs) * BallsPerOver / float64(s.Balls))
		}
		board.Bowling = append(board.Bowling, line)
	}
	return &board, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
