package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines roster lookups and writes.
type TeamRepository interface {
	CreateTeam(t *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeams(page, pageSize int) ([]Team, int64, error)
	AddPlayer(p *Player) error
	GetTeamPlayers(teamID uint) ([]Player, error)
	GetPlayerByID(id uint) (*Player, error)
}

// GormTeamRepository implements TeamRepository using GORM.
type GormTeamRepository struct {
	db *gorm.DB
}

func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

func (r *GormTeamRepository) CreateTeam(t *Team) error {
	return r.db.Create(t).Error
}

// GetTeamByID retrieves a team with its roster. Returns nil when missing.
func (r *GormTeamRepository) GetTeamByID(id uint) (*Team, error) {
	var t Team
	result := r.db.Preload("Players").Where("is_deleted = ?", false).First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &t, nil
}

func (r *GormTeamRepository) GetTeams(page, pageSize int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("is_deleted = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *GormTeamRepository) AddPlayer(p *Player) error {
	return r.db.Create(p).Error
}

func (r *GormTeamRepository) GetTeamPlayers(teamID uint) ([]Player, error) {
	var players []Player
	err := r.db.Where("team_id = ?", teamID).Order("jersey_number asc").Find(&players).Error
	return players, err
}

func (r *GormTeamRepository) GetPlayerByID(id uint) (*Player, error) {
	var p Player
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
