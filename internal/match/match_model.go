package match

import (
	"time"

	"gorm.io/gorm"

	"github.com/crickside/pitchbook/internal/team"
)

type MatchStatus string

const (
	StatusMatchUpcoming  MatchStatus = "upcoming"
	StatusMatchOngoing   MatchStatus = "ongoing"
	StatusMatchCompleted MatchStatus = "completed"
)

// ValidStatus reports whether s names a known match status.
func ValidStatus(s MatchStatus) bool {
	return s == StatusMatchUpcoming || s == StatusMatchOngoing || s == StatusMatchCompleted
}

// UndoWindow bounds how long after a forceful end the completion may be
// reverted. Natural completions never set EndedAt and are outside the window.
const UndoWindow = 5 * time.Minute

// DefaultEndComment is recorded when a forceful end carries no comment.
const DefaultEndComment = "Match ended by umpire decision"

// Match is a two-innings limited-overs fixture. Status is advanced only
// through the repository's transition methods.
type Match struct {
	gorm.Model
	Name        string     `json:"name" gorm:"not null"`
	CreatedByID uint       `json:"created_by_id" gorm:"index;not null"` // owning umpire
	TeamAID     uint       `json:"team_a_id" gorm:"index;not null"`
	TeamA       *team.Team `json:"team_a,omitempty" gorm:"foreignKey:TeamAID"`
	TeamBID     uint       `json:"team_b_id" gorm:"index;not null"`
	TeamB       *team.Team `json:"team_b,omitempty" gorm:"foreignKey:TeamBID"`

	TossWinnerTeamID *uint  `json:"toss_winner_team_id,omitempty" gorm:"index"`
	TossDecision     string `json:"toss_decision,omitempty"` // "bat" or "bowl"

	OversLimit int         `json:"overs_limit" gorm:"not null"`
	Status     MatchStatus `json:"status" gorm:"index;default:'upcoming'"`

	// Forceful-end bookkeeping. EndedAt anchors the undo window; a naturally
	// completed match leaves all three empty.
	EndedBy    string     `json:"ended_by,omitempty"`
	EndComment string     `json:"end_comment,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}
