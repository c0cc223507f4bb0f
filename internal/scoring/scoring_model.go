package scoring

import (
	"gorm.io/gorm"
)

type InningsStatus string

const (
	InningsOngoing   InningsStatus = "ongoing"
	InningsCompleted InningsStatus = "completed"
)

// BallType distinguishes deliveries that count toward the 6-ball over quota
// from those that don't.
type BallType string

const (
	BallLegal  BallType = "legal"
	BallNoBall BallType = "no_ball"
	BallWide   BallType = "wide"
)

func (b BallType) Legal() bool { return b == BallLegal }

func ValidBallType(b BallType) bool {
	return b == BallLegal || b == BallNoBall || b == BallWide
}

type ExtraType string

const (
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

func ValidExtraType(e ExtraType) bool {
	return e == ExtraWide || e == ExtraNoBall || e == ExtraBye || e == ExtraLegBye
}

// CountsAsBall reports whether this extra type follows a legal delivery and
// therefore counts toward the over's ball quota.
func (e ExtraType) CountsAsBall() bool { return e == ExtraBye || e == ExtraLegBye }

type DismissalType string

const (
	DismissalBowled    DismissalType = "bowled"
	DismissalCaught    DismissalType = "caught"
	DismissalLBW       DismissalType = "lbw"
	DismissalRunOut    DismissalType = "run_out"
	DismissalStumped   DismissalType = "stumped"
	DismissalHitWicket DismissalType = "hit_wicket"
)

func ValidDismissalType(d DismissalType) bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalRunOut, DismissalStumped, DismissalHitWicket:
		return true
	}
	return false
}

// Innings is one team's batting turn. Totals are maintained incrementally at
// write time; reads serve them as-is.
type Innings struct {
	gorm.Model
	MatchID          uint          `json:"match_id" gorm:"index;not null"`
	BattingTeamID    uint          `json:"batting_team_id" gorm:"index;not null"`
	InningsNumber    int           `json:"innings_number" gorm:"not null"` // 1 or 2
	OpeningBatsmanID uint          `json:"opening_batsman_id" gorm:"not null"`
	OpeningBowlerID  uint          `json:"opening_bowler_id" gorm:"not null"`
	Status           InningsStatus `json:"status" gorm:"default:'ongoing'"`

	TotalRuns    int `json:"total_runs" gorm:"default:0"`
	TotalWickets int `json:"total_wickets" gorm:"default:0"`
	TotalBalls   int `json:"total_balls" gorm:"default:0"` // legal balls + ball-counting extras
}

// Over keeps per-over counters, created lazily on the first delivery of the
// over. LegalBalls caps at 6 by enforcement policy, not hard rejection.
type Over struct {
	gorm.Model
	InningsID    uint `json:"innings_id" gorm:"index;not null"`
	OverNumber   int  `json:"over_number" gorm:"not null"` // 0-based
	LegalBalls   int  `json:"legal_balls" gorm:"default:0"`
	IllegalBalls int  `json:"illegal_balls" gorm:"default:0"`
	Runs         int  `json:"runs" gorm:"default:0"`
}

// Ball is the atomic unit of play. Immutable once created except IsWicket,
// flipped when a Wicket references it.
type Ball struct {
	gorm.Model
	InningsID    uint     `json:"innings_id" gorm:"index;not null"`
	OverID       uint     `json:"over_id" gorm:"index;not null"`
	BallNumber   int      `json:"ball_number" gorm:"not null"` // 1-based within its over
	StrikerID    uint     `json:"striker_id" gorm:"index;not null"`
	NonStrikerID *uint    `json:"non_striker_id,omitempty" gorm:"index"`
	BowlerID     uint     `json:"bowler_id" gorm:"index;not null"`
	Runs         int      `json:"runs" gorm:"default:0"`
	BallType     BallType `json:"ball_type" gorm:"not null;default:'legal'"`
	IsWicket     bool     `json:"is_wicket" gorm:"default:0"`
}

// Extra records runs not attributed to a batter's shot. Byes and leg-byes
// count toward the ball quota; wides and no-balls do not.
type Extra struct {
	gorm.Model
	InningsID uint      `json:"innings_id" gorm:"index;not null"`
	OverID    *uint     `json:"over_id,omitempty" gorm:"index"`
	ExtraType ExtraType `json:"extra_type" gorm:"not null"`
	Runs      int       `json:"runs" gorm:"default:0"`
}

// Wicket records a dismissal on a specific delivery. One wicket per ball.
type Wicket struct {
	gorm.Model
	InningsID   uint          `json:"innings_id" gorm:"index;not null"`
	BallID      uint          `json:"ball_id" gorm:"index;not null"`
	PlayerOutID uint          `json:"player_out_id" gorm:"index;not null"`
	BowlerID    uint          `json:"bowler_id" gorm:"index;not null"`
	FielderID   *uint         `json:"fielder_id,omitempty" gorm:"index"`
	WicketType  DismissalType `json:"wicket_type" gorm:"not null"`
}

// BattingStats is a running tally per player per innings, created on first
// contribution (or seeded zeroed at innings start) and never recomputed.
type BattingStats struct {
	gorm.Model
	InningsID  uint `json:"innings_id" gorm:"index:idx_batting_innings_player;not null"`
	PlayerID   uint `json:"player_id" gorm:"index:idx_batting_innings_player;not null"`
	BallsFaced int  `json:"balls_faced" gorm:"default:0"`
	Runs       int  `json:"runs" gorm:"default:0"`
	Fours      int  `json:"fours" gorm:"default:0"`
	Sixes      int  `json:"sixes" gorm:"default:0"`
}

// BowlingStats mirrors BattingStats for the bowling side.
type BowlingStats struct {
	gorm.Model
	InningsID uint `json:"innings_id" gorm:"index:idx_bowling_innings_player;not null"`
	PlayerID  uint `json:"player_id" gorm:"index:idx_bowling_innings_player;not null"`
	Balls     int  `json:"balls" gorm:"default:0"` // legal deliveries bowled
	Runs      int  `json:"runs" gorm:"default:0"`
	Wickets   int  `json:"wickets" gorm:"default:0"`
}
