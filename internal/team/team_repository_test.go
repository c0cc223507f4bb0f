package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crickside/pitchbook/internal/user"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&user.User{}, &Team{}, &Player{}))
	return db
}

func TestCreateAndGetTeam(t *testing.T) {
	db := setupDB(t)
	repo := NewGormTeamRepository(db)

	team := Team{Name: "Southbank CC", CreatedByID: 1}
	require.NoError(t, repo.CreateTeam(&team))
	assert.NotZero(t, team.ID)

	got, err := repo.GetTeamByID(team.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Southbank CC", got.Name)
	assert.Equal(t, DefaultSquadSize, got.SquadSize) // column default applies

	missing, err := repo.GetTeamByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetTeamsPagination(t *testing.T) {
	db := setupDB(t)
	repo := NewGormTeamRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateTeam(&Team{Name: "Team", CreatedByID: 1}))
	}

	teams, total, err := repo.GetTeams(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, teams, 2)

	teams, _, err = repo.GetTeams(3, 2)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestPlayersOrderedByJersey(t *testing.T) {
	db := setupDB(t)
	repo := NewGormTeamRepository(db)

	team := Team{Name: "Riverside", CreatedByID: 1}
	require.NoError(t, repo.CreateTeam(&team))

	require.NoError(t, repo.AddPlayer(&Player{TeamID: team.ID, Name: "Keeper", JerseyNumber: 7}))
	require.NoError(t, repo.AddPlayer(&Player{TeamID: team.ID, Name: "Captain", JerseyNumber: 1}))
	require.NoError(t, repo.AddPlayer(&Player{TeamID: team.ID, Name: "Spinner", JerseyNumber: 4}))

	players, err := repo.GetTeamPlayers(team.ID)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, []int{1, 4, 7}, []int{players[0].JerseyNumber, players[1].JerseyNumber, players[2].JerseyNumber})
}
