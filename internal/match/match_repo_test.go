package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crickside/pitchbook/internal/auth"
	"github.com/crickside/pitchbook/internal/team"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/pkg/apperr"
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

	require.NoError(t, db.AutoMigrate(&user.User{}, &team.Team{}, &team.Player{}, &Match{}))
	return db
}

func seedMatch(t *testing.T, db *gorm.DB) (*Match, auth.Context) {
	t.Helper()

	umpire := user.User{Name: "Ravi", Username: "ravi", Email: "ravi@example.com", Password: "x", Role: user.RoleUmpire}
	require.NoError(t, db.Create(&umpire).Error)

	teamA := team.Team{Name: "Eastvale", CreatedByID: umpire.ID}
	teamB := team.Team{Name: "Westgate", CreatedByID: umpire.ID}
	require.NoError(t, db.Create(&teamA).Error)
	require.NoError(t, db.Create(&teamB).Error)

	m := Match{
		Name:        "Eastvale vs Westgate",
		CreatedByID: umpire.ID,
		TeamAID:     teamA.ID,
		TeamBID:     teamB.ID,
		OversLimit:  20,
		Status:      StatusMatchOngoing,
	}
	require.NoError(t, db.Create(&m).Error)
	return &m, auth.Context{UserID: umpire.ID, Role: user.RoleUmpire}
}

func TestCreateMatchValidation(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, _ := seedMatch(t, db)

	err := repo.CreateMatch(&Match{
		Name:        "Mirror match",
		CreatedByID: m.CreatedByID,
		TeamAID:     m.TeamAID,
		TeamBID:     m.TeamAID,
		OversLimit:  20,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = repo.CreateMatch(&Match{
		Name:        "No overs",
		CreatedByID: m.CreatedByID,
		TeamAID:     m.TeamAID,
		TeamBID:     m.TeamBID,
		OversLimit:  0,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestForcefulEndAndUndoWithinWindow(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, actx := seedMatch(t, db)

	endedAt := time.Now()
	repo.now = func() time.Time { return endedAt }

	got, err := repo.ForcefulEnd(actx, m.ID, "rain stopped play")
	require.NoError(t, err)
	assert.Equal(t, StatusMatchCompleted, got.Status)
	assert.Equal(t, user.RoleUmpire, got.EndedBy)
	assert.Equal(t, "rain stopped play", got.EndComment)
	require.NotNil(t, got.EndedAt)

	// Ending an already-completed match is a conflict.
	_, err = repo.ForcefulEnd(actx, m.ID, "again")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Undo just inside the window restores play and clears the end fields.
	repo.now = func() time.Time { return endedAt.Add(UndoWindow - time.Second) }
	got, err = repo.UndoCancellation(actx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusMatchOngoing, got.Status)
	assert.Empty(t, got.EndedBy)
	assert.Empty(t, got.EndComment)
	assert.Nil(t, got.EndedAt)
}

func TestUndoAfterWindowRejected(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, actx := seedMatch(t, db)

	endedAt := time.Now()
	repo.now = func() time.Time { return endedAt }
	_, err := repo.ForcefulEnd(actx, m.ID, "")
	require.NoError(t, err)

	repo.now = func() time.Time { return endedAt.Add(UndoWindow + time.Minute) }
	_, err = repo.UndoCancellation(actx, m.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUndoNaturalCompletionRejected(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, actx := seedMatch(t, db)

	// Natural completion carries no end stamp.
	require.NoError(t, db.Model(&Match{}).Where("id = ?", m.ID).
		Update("status", StatusMatchCompleted).Error)

	_, err := repo.UndoCancellation(actx, m.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUndoOngoingMatchRejected(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, actx := seedMatch(t, db)

	_, err := repo.UndoCancellation(actx, m.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestOwnershipPredicate(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, _ := seedMatch(t, db)

	foreign := auth.Context{UserID: 9999, Role: user.RoleUmpire}
	_, err := repo.ForcefulEnd(foreign, m.ID, "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	viewer := auth.Context{UserID: m.CreatedByID, Role: user.RoleViewer}
	_, err = repo.SetStatus(viewer, m.ID, StatusMatchCompleted)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// Admins bypass ownership.
	admin := auth.Context{UserID: 8888, Role: user.RoleAdmin}
	got, err := repo.ForcefulEnd(admin, m.ID, "ground unfit")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.EndedBy)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, actx := seedMatch(t, db)

	_, err := repo.SetStatus(actx, m.ID, MatchStatus("abandoned"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMatchNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	_, actx := seedMatch(t, db)

	_, err := repo.ForcefulEnd(actx, 424242, "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
