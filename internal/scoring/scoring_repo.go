package scoring

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/match"
	"github.com/crickside/pitchbook/internal/team"
	"github.com/crickside/pitchbook/pkg/apperr"
)

// BallsPerOver is the legal-delivery quota of one over.
const BallsPerOver = 6

// StartInningsParams carries the innings-start inputs.
type StartInningsParams struct {
	TeamID           uint
	InningsNumber    int // 0 means "next"
	OpeningBatsmanID uint
	OpeningBowlerID  uint
}

// BallParams carries the delivery-recording inputs.
type BallParams struct {
	OverNumber   int
	StrikerID    uint
	NonStrikerID *uint
	BowlerID     uint
	Runs         int
	BallType     BallType
}

// BallResult is the recorded ball plus the ends-swap outcome: who faces the
// next delivery. Odd runs swap ends; the close of an over swaps them again.
type BallResult struct {
	Ball             Ball  `json:"ball"`
	NextStrikerID    uint  `json:"next_striker_id"`
	NextNonStrikerID *uint `json:"next_non_striker_id,omitempty"`
}

// ExtraParams carries the extra-recording inputs.
type ExtraParams struct {
	ExtraType  ExtraType
	Runs       int
	OverNumber *int // optional; attributes runs (and quota balls) to that over
}

// WicketParams carries the wicket-recording inputs. A nil BallID triggers the
// implicit-ball path: a zero-run legal delivery is recorded in the same
// transaction before the wicket.
type WicketParams struct {
	BallID      *uint
	PlayerOutID uint
	BowlerID    uint
	FielderID   *uint
	WicketType  DismissalType
}

// ScoringRepository is the ball-by-ball innings scoring engine. Every mutation
// is one transaction, serialized per innings; reads serve stored aggregates.
type ScoringRepository interface {
	StartInnings(actx auth.Context, matchID uint, p StartInningsParams) (*Innings, error)
	GetMatchInnings(matchID uint) ([]Innings, error)

	ListOvers(inningsID uint) ([]Over, error)

	RecordBall(actx auth.Context, matchID, inningsID uint, p BallParams) (*BallResult, error)
	DeleteBall(actx auth.Context, matchID, inningsID, ballID uint) error
	ListBalls(inningsID uint) ([]Ball, error)

	RecordExtra(actx auth.Context, matchID, inningsID uint, p ExtraParams) (*Extra, error)
	DeleteExtra(actx auth.Context, matchID, inningsID, extraID uint) error
	ListExtras(inningsID uint) ([]Extra, error)

	RecordWicket(actx auth.Context, matchID, inningsID uint, p WicketParams) (*Wicket, error)
	DeleteWicket(actx auth.Context, matchID, inningsID, wicketID uint) error
	ListWickets(inningsID uint) ([]Wicket, error)

	GetBattingStats(inningsID uint) ([]BattingStats, error)
	GetBowlingStats(inningsID uint) ([]BowlingStats, error)
}

// GormScoringRepository implements ScoringRepository using GORM.
type GormScoringRepository struct {
	db    *gorm.DB
	locks *inningsLocks
}

func NewGormScoringRepository(db *gorm.DB) *GormScoringRepository {
	return &GormScoringRepository{db: db, locks: newInningsLocks()}
}

// --- guards and shared helpers ---

// guardedMatch loads the match and applies the access predicate. Mutations on
// a completed match are rejected: its innings are immutable.
func guardedMatch(tx *gorm.DB, actx auth.Context, matchID uint) (*match.Match, error) {
	var m match.Match
	if err := tx.First(&m, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("match")
		}
		return nil, apperr.Internal(err)
	}
	if !actx.CanScore(m.CreatedByID) {
		return nil, apperr.Authorization("you are not the umpire of this match")
	}
	if m.Status == match.StatusMatchCompleted {
		return nil, apperr.Conflict("match is completed; scoring data is immutable")
	}
	return &m, nil
}

func loadInnings(tx *gorm.DB, matchID, inningsID uint) (*Innings, error) {
	var innings Innings
	if err := tx.First(&innings, inningsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("innings")
		}
		return nil, apperr.Internal(err)
	}
	if innings.MatchID != matchID {
		return nil, apperr.NotFound("innings")
	}
	return &innings, nil
}

func getOrCreateOver(tx *gorm.DB, inningsID uint, overNumber int) (*Over, error) {
	var over Over
	err := tx.Where("innings_id = ? AND over_number = ?", inningsID, overNumber).First(&over).Error
	if err == nil {
		return &over, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}
	over = Over{InningsID: inningsID, OverNumber: overNumber}
	if err := tx.Create(&over).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &over, nil
}

// adjustBattingStats applies a signed contribution to the striker's tally,
// creating the row on first contribution.
func adjustBattingStats(tx *gorm.DB, inningsID, playerID uint, ballsFaced, runs int) error {
	var stats BattingStats
	err := tx.Where("innings_id = ? AND player_id = ?", inningsID, playerID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = BattingStats{InningsID: inningsID, PlayerID: playerID}
		if err := tx.Create(&stats).Error; err != nil {
			return apperr.Internal(err)
		}
	} else if err != nil {
		return apperr.Internal(err)
	}

	stats.BallsFaced += ballsFaced
	stats.Runs += runs
	switch runs {
	case 4:
		stats.Fours++
	case -4:
		stats.Fours--
	case 6:
		stats.Sixes++
	case -6:
		stats.Sixes--
	}
	if err := tx.Save(&stats).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func adjustBowlingStats(tx *gorm.DB, inningsID, playerID uint, balls, runs, wickets int) error {
	var stats BowlingStats
	err := tx.Where("innings_id = ? AND player_id = ?", inningsID, playerID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = BowlingStats{InningsID: inningsID, PlayerID: playerID}
		if err := tx.Create(&stats).Error; err != nil {
			return apperr.Internal(err)
		}
	} else if err != nil {
		return apperr.Internal(err)
	}

	stats.Balls += balls
	stats.Runs += runs
	stats.Wickets += wickets
	if err := tx.Save(&stats).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// squadSize resolves the all-out threshold base for the batting side.
func squadSize(tx *gorm.DB, teamID uint) int {
	var t team.Team
	if err := tx.First(&t, teamID).Error; err == nil && t.SquadSize > 0 {
		return t.SquadSize
	}
	return team.DefaultSquadSize
}

// maybeCompleteInnings persists the innings-completion transition inside the
// same transaction that crossed the threshold, and completes the match
// naturally when the second innings closes (no EndedAt: not undoable).
func maybeCompleteInnings(tx *gorm.DB, m *match.Match, innings *Innings) error {
	if innings.Status == InningsCompleted {
		return nil
	}
	allOut := innings.TotalWickets >= squadSize(tx, innings.BattingTeamID)-1
	oversDone := innings.TotalBalls >= m.OversLimit*BallsPerOver
	if !allOut && !oversDone {
		return nil
	}

	innings.Status = InningsCompleted
	if err := tx.Save(innings).Error; err != nil {
		return apperr.Internal(err)
	}
	log.WithFields(log.Fields{
		"match_id":   m.ID,
		"innings_id": innings.ID,
		"all_out":    allOut,
		"overs_done": oversDone,
	}).Info("innings completed")

	if innings.InningsNumber == 2 {
		m.Status = match.StatusMatchCompleted
		if err := tx.Save(m).Error; err != nil {
			return apperr.Internal(err)
		}
		log.WithField("match_id", m.ID).Info("match completed naturally")
	}
	return nil
}

func touchMatch(tx *gorm.DB, matchID uint) error {
	// Save on a loaded row would do this too; an explicit update keeps the
	// "scoring data changed" signal cheap for pollers.
	if err := tx.Model(&match.Match{}).Where("id = ?", matchID).
		Update("updated_at", tx.NowFunc()).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// --- Innings lifecycle ---

// StartInnings opens an innings for the batting side, flips the match to
// ongoing on first use, and seeds zeroed batting tallies for roster players
// that lack one. Re-seeding skips existing rows; re-starting the same innings
// number is rejected.
func (r *GormScoringRepository) StartInnings(actx auth.Context, matchID uint, p StartInningsParams) (*Innings, error) {
	if p.OpeningBatsmanID == 0 || p.OpeningBowlerID == 0 {
		return nil, apperr.Validation("opening batsman and opening bowler are required")
	}

	var created *Innings
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := guardedMatch(tx, actx, matchID)
		if err != nil {
			return err
		}
		if p.TeamID != m.TeamAID && p.TeamID != m.TeamBID {
			return apperr.Validation("batting team is not part of this match")
		}

		var existing int64
		if err := tx.Model(&Innings{}).Where("match_id = ?", matchID).Count(&existing).Error; err != nil {
			return apperr.Internal(err)
		}

		number := p.InningsNumber
		if number == 0 {
			number = int(existing) + 1
		}
		if number != 1 && number != 2 {
			return apperr.Validation("innings number must be 1 or 2")
		}

		var dup int64
		if err := tx.Model(&Innings{}).
			Where("match_id = ? AND innings_number = ?", matchID, number).
			Count(&dup).Error; err != nil {
			return apperr.Internal(err)
		}
		if dup > 0 {
			return apperr.Conflict(fmt.Sprintf("innings %d already exists for this match", number))
		}

		innings := Innings{
			MatchID:          matchID,
			BattingTeamID:    p.TeamID,
			InningsNumber:    number,
			OpeningBatsmanID: p.OpeningBatsmanID,
			OpeningBowlerID:  p.OpeningBowlerID,
			Status:           InningsOngoing,
		}
		if err := tx.Create(&innings).Error; err != nil {
			return apperr.Internal(err)
		}

		if m.Status == match.StatusMatchUpcoming {
			m.Status = match.StatusMatchOngoing
			if err := tx.Save(m).Error; err != nil {
				return apperr.Internal(err)
			}
		}

		// Seed a zeroed tally for every roster player without one yet.
		var players []team.Player
		if err := tx.Where("team_id = ?", p.TeamID).Find(&players).Error; err != nil {
			return apperr.Internal(err)
		}
		for _, pl := range players {
			var count int64
			if err := tx.Model(&BattingStats{}).
				Where("innings_id = ? AND player_id = ?", innings.ID, pl.ID).
				Count(&count).Error; err != nil {
				return apperr.Internal(err)
			}
			if count == 0 {
				if err := tx.Create(&BattingStats{InningsID: innings.ID, PlayerID: pl.ID}).Error; err != nil {
					return apperr.Internal(err)
				}
			}
		}

		created = &innings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetMatchInnings lists a match's innings ordered by innings number.
func (r *GormScoringRepository) GetMatchInnings(matchID uint) ([]Innings, error) {
	var innings []Innings
	err := r.db.Where("match_id = ?", matchID).Order("innings_number asc").Find(&innings).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return innings, nil
}

// ListOvers lists an innings' overs in play order.
func (r *GormScoringRepository) ListOvers(inningsID uint) ([]Over, error) {
	var overs []Over
	err := r.db.Where("innings_id = ?", inningsID).Order("over_number asc").Find(&overs).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return overs, nil
}

// --- Delivery Ledger ---

// RecordBall appends a delivery and synchronously maintains the over, innings
// and player aggregates, all in one transaction under the innings lock.
func (r *GormScoringRepository) RecordBall(actx auth.Context, matchID, inningsID uint, p BallParams) (*BallResult, error) {
	if !ValidBallType(p.BallType) {
		return nil, apperr.Validation(fmt.Sprintf("unknown ball type %q", p.BallType))
	}
	if p.BallType.Legal() && (p.Runs < 0 || p.Runs > 6) {
		return nil, apperr.Validation("runs must be between 0 and 6 for a legal delivery")
	}
	if p.Runs < 0 {
		return nil, apperr.Validation("runs must not be negative")
	}
	if p.OverNumber < 0 {
		return nil, apperr.Validation("over number must not be negative")
	}
	if p.StrikerID == 0 || p.BowlerID == 0 {
		return nil, apperr.Validation("striker and bowler are required")
	}

	unlock := r.locks.acquire(inningsID)
	defer unlock()

	var result *BallResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := guardedMatch(tx, actx, matchID)
		if err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}
		if innings.Status != InningsOngoing {
			return apperr.Conflict("innings is not ongoing")
		}

		ball, over, err := insertBall(tx, innings, p)
		if err != nil {
			return err
		}

		innings.TotalRuns += p.Runs
		if p.BallType.Legal() {
			innings.TotalBalls++
		}
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		legalFaced := 0
		if p.BallType.Legal() {
			legalFaced = 1
		}
		if err := adjustBattingStats(tx, inningsID, p.StrikerID, legalFaced, p.Runs); err != nil {
			return err
		}
		if err := adjustBowlingStats(tx, inningsID, p.BowlerID, legalFaced, p.Runs, 0); err != nil {
			return err
		}

		if err := maybeCompleteInnings(tx, m, innings); err != nil {
			return err
		}
		if err := touchMatch(tx, matchID); err != nil {
			return err
		}

		result = &BallResult{Ball: *ball}
		result.NextStrikerID, result.NextNonStrikerID = nextEnds(p, over)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"innings_id": inningsID,
		"ball_id":    result.Ball.ID,
		"runs":       p.Runs,
		"ball_type":  p.BallType,
	}).Debug("delivery recorded")
	return result, nil
}

// insertBall creates the over lazily, derives the 1-based ball number from the
// current count, inserts the ball and bumps the over counters.
func insertBall(tx *gorm.DB, innings *Innings, p BallParams) (*Ball, *Over, error) {
	over, err := getOrCreateOver(tx, innings.ID, p.OverNumber)
	if err != nil {
		return nil, nil, err
	}

	var existing int64
	if err := tx.Model(&Ball{}).Where("over_id = ?", over.ID).Count(&existing).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}

	ball := Ball{
		InningsID:    innings.ID,
		OverID:       over.ID,
		BallNumber:   int(existing) + 1,
		StrikerID:    p.StrikerID,
		NonStrikerID: p.NonStrikerID,
		BowlerID:     p.BowlerID,
		Runs:         p.Runs,
		BallType:     p.BallType,
	}
	if err := tx.Create(&ball).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}

	if p.BallType.Legal() {
		over.LegalBalls++
	} else {
		over.IllegalBalls++
	}
	over.Runs += p.Runs
	if err := tx.Save(over).Error; err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return &ball, over, nil
}

// nextEnds applies the ends-swap rule: odd runs swap striker and non-striker,
// and the final legal ball of an over swaps them again. It works on copies:
// p.NonStrikerID aliases the recorded Ball's field and must not be written.
func nextEnds(p BallParams, over *Over) (uint, *uint) {
	striker := p.StrikerID
	var nonStriker *uint
	if p.NonStrikerID != nil {
		ns := *p.NonStrikerID
		nonStriker = &ns
	}

	swap := func() {
		if nonStriker == nil {
			return
		}
		striker, *nonStriker = *nonStriker, striker
	}

	if p.Runs%2 == 1 {
		swap()
	}
	if p.BallType.Legal() && over.LegalBalls == BallsPerOver {
		swap()
	}
	return striker, nonStriker
}

// DeleteBall removes a delivery and reverses its contribution to the over,
// innings and player aggregates. A ball carrying a live wicket must have the
// wicket deleted first.
func (r *GormScoringRepository) DeleteBall(actx auth.Context, matchID, inningsID, ballID uint) error {
	unlock := r.locks.acquire(inningsID)
	defer unlock()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := guardedMatch(tx, actx, matchID); err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}

		var ball Ball
		if err := tx.First(&ball, ballID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("ball")
			}
			return apperr.Internal(err)
		}
		if ball.InningsID != inningsID {
			return apperr.NotFound("ball")
		}
		if ball.IsWicket {
			return apperr.Conflict("ball has a wicket recorded against it; delete the wicket first")
		}

		if err := tx.Delete(&ball).Error; err != nil {
			return apperr.Internal(err)
		}

		var over Over
		if err := tx.First(&over, ball.OverID).Error; err != nil {
			return apperr.Internal(err)
		}
		if ball.BallType.Legal() {
			over.LegalBalls--
		} else {
			over.IllegalBalls--
		}
		over.Runs -= ball.Runs
		if err := tx.Save(&over).Error; err != nil {
			return apperr.Internal(err)
		}

		innings.TotalRuns -= ball.Runs
		if ball.BallType.Legal() {
			innings.TotalBalls--
		}
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		legalFaced := 0
		if ball.BallType.Legal() {
			legalFaced = 1
		}
		if err := adjustBattingStats(tx, inningsID, ball.StrikerID, -legalFaced, -ball.Runs); err != nil {
			return err
		}
		if err := adjustBowlingStats(tx, inningsID, ball.BowlerID, -legalFaced, -ball.Runs, 0); err != nil {
			return err
		}

		return touchMatch(tx, matchID)
	})
}

// ListBalls lists an innings' deliveries in play order.
func (r *GormScoringRepository) ListBalls(inningsID uint) ([]Ball, error) {
	var balls []Ball
	err := r.db.Where("innings_id = ?", inningsID).
		Order("over_id asc, ball_number asc").Find(&balls).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return balls, nil
}

// --- Extras Ledger ---

// RecordExtra appends an extra. All extras add runs; byes and leg-byes also
// count toward the ball quota, symmetrically with their deletion.
func (r *GormScoringRepository) RecordExtra(actx auth.Context, matchID, inningsID uint, p ExtraParams) (*Extra, error) {
	if !ValidExtraType(p.ExtraType) {
		return nil, apperr.Validation(fmt.Sprintf("unknown extra type %q", p.ExtraType))
	}
	if p.Runs < 0 {
		return nil, apperr.Validation("extra runs must not be negative")
	}
	if p.OverNumber != nil && *p.OverNumber < 0 {
		return nil, apperr.Validation("over number must not be negative")
	}

	unlock := r.locks.acquire(inningsID)
	defer unlock()

	var created *Extra
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := guardedMatch(tx, actx, matchID)
		if err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}
		if innings.Status != InningsOngoing {
			return apperr.Conflict("innings is not ongoing")
		}

		var over *Over
		if p.OverNumber != nil {
			over, err = getOrCreateOver(tx, inningsID, *p.OverNumber)
			if err != nil {
				return err
			}
		}

		extra := Extra{InningsID: inningsID, ExtraType: p.ExtraType, Runs: p.Runs}
		if over != nil {
			extra.OverID = &over.ID
		}
		if err := tx.Create(&extra).Error; err != nil {
			return apperr.Internal(err)
		}

		innings.TotalRuns += p.Runs
		if p.ExtraType.CountsAsBall() {
			innings.TotalBalls++
		}
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		if over != nil {
			over.Runs += p.Runs
			if p.ExtraType.CountsAsBall() {
				over.LegalBalls++
			}
			if err := tx.Save(over).Error; err != nil {
				return apperr.Internal(err)
			}
		}

		if err := maybeCompleteInnings(tx, m, innings); err != nil {
			return err
		}
		if err := touchMatch(tx, matchID); err != nil {
			return err
		}

		created = &extra
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteExtra removes an extra and reverses exactly what recording applied.
func (r *GormScoringRepository) DeleteExtra(actx auth.Context, matchID, inningsID, extraID uint) error {
	unlock := r.locks.acquire(inningsID)
	defer unlock()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := guardedMatch(tx, actx, matchID); err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}

		var extra Extra
		if err := tx.First(&extra, extraID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("extra")
			}
			return apperr.Internal(err)
		}
		if extra.InningsID != inningsID {
			return apperr.NotFound("extra")
		}

		if err := tx.Delete(&extra).Error; err != nil {
			return apperr.Internal(err)
		}

		innings.TotalRuns -= extra.Runs
		if extra.ExtraType.CountsAsBall() {
			innings.TotalBalls--
		}
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		if extra.OverID != nil {
			var over Over
			if err := tx.First(&over, *extra.OverID).Error; err != nil {
				return apperr.Internal(err)
			}
			over.Runs -= extra.Runs
			if extra.ExtraType.CountsAsBall() {
				over.LegalBalls--
			}
			if err := tx.Save(&over).Error; err != nil {
				return apperr.Internal(err)
			}
		}

		return touchMatch(tx, matchID)
	})
}

// ListExtras lists an innings' extras in record order.
func (r *GormScoringRepository) ListExtras(inningsID uint) ([]Extra, error) {
	var extras []Extra
	err := r.db.Where("innings_id = ?", inningsID).Order("id asc").Find(&extras).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return extras, nil
}

// --- Wicket Ledger ---

// RecordWicket appends a dismissal against a delivery. When no ball is given,
// a zero-run legal delivery is recorded first in the same transaction (the
// implicit-ball path), so the client never needs two calls.
func (r *GormScoringRepository) RecordWicket(actx auth.Context, matchID, inningsID uint, p WicketParams) (*Wicket, error) {
	if !ValidDismissalType(p.WicketType) {
		return nil, apperr.Validation(fmt.Sprintf("unknown wicket type %q", p.WicketType))
	}
	if p.PlayerOutID == 0 || p.BowlerID == 0 {
		return nil, apperr.Validation("player out and bowler are required")
	}

	unlock := r.locks.acquire(inningsID)
	defer unlock()

	var created *Wicket
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := guardedMatch(tx, actx, matchID)
		if err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}
		if innings.Status != InningsOngoing {
			return apperr.Conflict("innings is not ongoing")
		}

		var ball Ball
		if p.BallID != nil {
			if err := tx.First(&ball, *p.BallID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("ball")
				}
				return apperr.Internal(err)
			}
			if ball.InningsID != inningsID {
				return apperr.NotFound("ball")
			}
		} else {
			recorded, overNum, err := implicitBall(tx, innings, p)
			if err != nil {
				return err
			}
			ball = *recorded
			innings.TotalBalls++
			if err := tx.Save(innings).Error; err != nil {
				return apperr.Internal(err)
			}
			if err := adjustBattingStats(tx, inningsID, p.PlayerOutID, 1, 0); err != nil {
				return err
			}
			if err := adjustBowlingStats(tx, inningsID, p.BowlerID, 1, 0, 0); err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"innings_id": inningsID,
				"over":       overNum,
			}).Debug("implicit zero-run delivery recorded for wicket")
		}

		if ball.IsWicket {
			return apperr.Conflict("ball already has a wicket recorded against it")
		}

		wicket := Wicket{
			InningsID:   inningsID,
			BallID:      ball.ID,
			PlayerOutID: p.PlayerOutID,
			BowlerID:    p.BowlerID,
			FielderID:   p.FielderID,
			WicketType:  p.WicketType,
		}
		if err := tx.Create(&wicket).Error; err != nil {
			return apperr.Internal(err)
		}

		if err := tx.Model(&Ball{}).Where("id = ?", ball.ID).Update("is_wicket", true).Error; err != nil {
			return apperr.Internal(err)
		}

		innings.TotalWickets++
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		if err := adjustBowlingStats(tx, inningsID, p.BowlerID, 0, 0, 1); err != nil {
			return err
		}

		if err := maybeCompleteInnings(tx, m, innings); err != nil {
			return err
		}
		if err := touchMatch(tx, matchID); err != nil {
			return err
		}

		created = &wicket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// implicitBall records the zero-run legal delivery a wicket needs when none
// exists, attributed to the innings' latest over (over 0 on a fresh innings).
func implicitBall(tx *gorm.DB, innings *Innings, p WicketParams) (*Ball, int, error) {
	overNumber := 0
	var latest Over
	err := tx.Where("innings_id = ?", innings.ID).Order("over_number desc").First(&latest).Error
	if err == nil {
		overNumber = latest.OverNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, apperr.Internal(err)
	}

	ball, _, err := insertBall(tx, innings, BallParams{
		OverNumber: overNumber,
		StrikerID:  p.PlayerOutID,
		BowlerID:   p.BowlerID,
		Runs:       0,
		BallType:   BallLegal,
	})
	if err != nil {
		return nil, 0, err
	}
	return ball, overNumber, nil
}

// DeleteWicket removes a dismissal, reverses the wicket tallies and clears the
// ball's wicket flag so Ball and Wicket state stay consistent.
func (r *GormScoringRepository) DeleteWicket(actx auth.Context, matchID, inningsID, wicketID uint) error {
	unlock := r.locks.acquire(inningsID)
	defer unlock()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := guardedMatch(tx, actx, matchID); err != nil {
			return err
		}
		innings, err := loadInnings(tx, matchID, inningsID)
		if err != nil {
			return err
		}

		var wicket Wicket
		if err := tx.First(&wicket, wicketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("wicket")
			}
			return apperr.Internal(err)
		}
		if wicket.InningsID != inningsID {
			return apperr.NotFound("wicket")
		}

		if err := tx.Delete(&wicket).Error; err != nil {
			return apperr.Internal(err)
		}

		if innings.TotalWickets > 0 {
			innings.TotalWickets--
		}
		if err := tx.Save(innings).Error; err != nil {
			return apperr.Internal(err)
		}

		if err := tx.Model(&Ball{}).Where("id = ?", wicket.BallID).Update("is_wicket", false).Error; err != nil {
			return apperr.Internal(err)
		}

		if err := adjustBowlingStats(tx, inningsID, wicket.BowlerID, 0, 0, -1); err != nil {
			return err
		}

		return touchMatch(tx, matchID)
	})
}

// ListWickets lists an innings' dismissals in record order.
func (r *GormScoringRepository) ListWickets(inningsID uint) ([]Wicket, error) {
	var wickets []Wicket
	err := r.db.Where("innings_id = ?", inningsID).Order("id asc").Find(&wickets).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return wickets, nil
}

// --- Player statistics reads ---

func (r *GormScoringRepository) GetBattingStats(inningsID uint) ([]BattingStats, error) {
	var stats []BattingStats
	err := r.db.Where("innings_id = ?", inningsID).Order("player_id asc").Find(&stats).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return stats, nil
}

func (r *GormScoringRepository) GetBowlingStats(inningsID uint) ([]BowlingStats, error) {
	var stats []BowlingStats
	err := r.db.Where("innings_id = ?", inningsID).Order("player_id asc").Find(&stats).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return stats, nil
}
