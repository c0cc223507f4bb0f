package match

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crickside/pitchbook/internal/middleware"
	"github.com/crickside/pitchbook/internal/team"
	"github.com/crickside/pitchbook/internal/user"
	"github.com/crickside/pitchbook/pkg/token"
)

func TestEndMatchToleratesEmptyBody(t *testing.T) {
	db := setupDB(t)
	repo := NewGormMatchRepository(db)
	m, _ := seedMatch(t, db)
	controller := NewMatchController(repo, team.NewGormTeamRepository(db))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(m.ID)}}
	c.Set(middleware.AuthClaimsKey, &token.Claims{UserID: m.CreatedByID, Role: user.RoleUmpire})

	controller.EndMatch(c)
	require.Equal(t, http.StatusOK, w.Code)

	var got Match
	require.NoError(t, db.First(&got, m.ID).Error)
	assert.Equal(t, StatusMatchCompleted, got.Status)
	assert.Equal(t, DefaultEndComment, got.EndComment)
}
