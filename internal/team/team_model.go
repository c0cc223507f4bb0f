// team/team_model.go
package team

import (
	"gorm.io/gorm"
)

// DefaultSquadSize is assumed when a team doesn't declare one. The innings
// completion predicate (all out at squadSize-1 wickets) reads it.
const DefaultSquadSize = 11

// Team is a roster the scoring core references but never mutates.
type Team struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
	SquadSize   int    `json:"squad_size" gorm:"default:11"`
	IsDeleted   bool   `json:"is_deleted" gorm:"default:false"`

	Players []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// Player is a stable identity on a team's roster. Ledger entries reference
// players by ID; the roster rows themselves stay immutable during a match.
type Player struct {
	gorm.Model
	TeamID       uint   `json:"team_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"not null"`
	JerseyNumber int    `json:"jersey_number"`
	Role         string `json:"role" gorm:"default:'batsman'"` // "batsman", "bowler", "all_rounder", "wicket_keeper"
}
