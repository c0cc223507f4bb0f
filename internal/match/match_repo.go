package match

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/pkg/apperr"
)

// MatchRepository defines match persistence and the state machine transitions.
type MatchRepository interface {
	CreateMatch(m *Match) error
	GetMatchByID(id uint) (*Match, error)
	GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error)
	SetStatus(actx auth.Context, matchID uint, status MatchStatus) (*Match, error)
	ForcefulEnd(actx auth.Context, matchID uint, comment string) (*Match, error)
	UndoCancellation(actx auth.Context, matchID uint) (*Match, error)
}

// GormMatchRepository implements MatchRepository using GORM.
type GormMatchRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db, now: time.Now}
}

func (r *GormMatchRepository) CreateMatch(m *Match) error {
	if m.OversLimit <= 0 {
		return apperr.Validation("overs limit must be a positive number")
	}
	if m.TeamAID == m.TeamBID {
		return apperr.Validation("a match needs two distinct teams")
	}
	if err := r.db.Create(m).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetMatchByID retrieves a match with both teams preloaded. Returns nil when missing.
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	result := r.db.Preload("TeamA").Preload("TeamB").First(&m, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(result.Error)
	}
	return &m, nil
}

// GetMatches retrieves matches based on filters with pagination. No ownership
// filtering: match data is publicly readable.
func (r *GormMatchRepository) GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})
	for key, value := range filters {
		query = query.Where(key, value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	offset := (page - 1) * pageSize
	result := query.Preload("TeamA").Preload("TeamB").
		Order("created_at desc").
		Offset(offset).Limit(pageSize).
		Find(&matches)
	if result.Error != nil {
		return nil, 0, apperr.Internal(result.Error)
	}
	return matches, total, nil
}

// guarded loads a match and applies the mutation access predicate: admins act
// on everything, umpires only on matches they own.
func (r *GormMatchRepository) guarded(tx *gorm.DB, actx auth.Context, matchID uint) (*Match, error) {
	var m Match
	if err := tx.First(&m, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("match")
		}
		return nil, apperr.Internal(err)
	}
	if !actx.CanScore(m.CreatedByID) {
		return nil, apperr.Authorization("you are not the umpire of this match")
	}
	return &m, nil
}

// SetStatus applies a direct status change (owner/admin only).
func (r *GormMatchRepository) SetStatus(actx auth.Context, matchID uint, status MatchStatus) (*Match, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown match status %q", status))
	}

	var updated *Match
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := r.guarded(tx, actx, matchID)
		if err != nil {
			return err
		}
		m.Status = status
		if err := tx.Save(m).Error; err != nil {
			return apperr.Internal(err)
		}
		updated = m
		return nil
	})
	return updated, err
}

// ForcefulEnd completes a match by umpire decision and stamps EndedAt so the
// decision stays undoable for UndoWindow.
func (r *GormMatchRepository) ForcefulEnd(actx auth.Context, matchID uint, comment string) (*Match, error) {
	if comment == "" {
		comment = DefaultEndComment
	}

	var updated *Match
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := r.guarded(tx, actx, matchID)
		if err != nil {
			return err
		}
		if m.Status == StatusMatchCompleted {
			return apperr.Conflict("match is already completed")
		}
		now := r.now()
		m.Status = StatusMatchCompleted
		m.EndedBy = actx.Role
		m.EndComment = comment
		m.EndedAt = &now
		if err := tx.Save(m).Error; err != nil {
			return apperr.Internal(err)
		}
		updated = m
		return nil
	})
	return updated, err
}

// UndoCancellation reverts a forceful end within the undo window, restoring
// the match to ongoing and clearing the end bookkeeping.
func (r *GormMatchRepository) UndoCancellation(actx auth.Context, matchID uint) (*Match, error) {
	var updated *Match
	err := r.db.Transaction(func(tx *gorm.DB) error {
		m, err := r.guarded(tx, actx, matchID)
		if err != nil {
			return err
		}
		if m.Status != StatusMatchCompleted {
			return apperr.Conflict("match is not completed")
		}
		if m.EndedAt == nil {
			// Natural completions are derived from play and cannot be undone here.
			return apperr.Conflict("match completed naturally and cannot be reverted")
		}
		elapsed := r.now().Sub(*m.EndedAt)
		if elapsed > UndoWindow {
			return apperr.Conflict(fmt.Sprintf(
				"undo window of %d minutes has expired (%.0f minutes elapsed)",
				int(UndoWindow.Minutes()), elapsed.Minutes()))
		}
		m.Status = StatusMatchOngoing
		m.EndedBy = ""
		m.EndComment = ""
		m.EndedAt = nil
		if err := tx.Save(m).Error; err != nil {
			return apperr.Internal(err)
		}
		updated = m
		return nil
	})
	return updated, err
}
