package scoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindBallRequest(t *testing.T, payload string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	var req RecordBallRequest
	return c.ShouldBindJSON(&req)
}

func TestRecordBallBindingAcceptsRunawayWide(t *testing.T) {
	// The 0..6 cap is type-aware and lives in the repository; the binding must
	// not reject a wide that ran for more.
	err := bindBallRequest(t, `{"striker_player_id":1,"bowler_id":2,"runs":7,"ball_type":"wide"}`)
	require.NoError(t, err)
}

func TestRecordBallBindingRejectsNegativeRuns(t *testing.T) {
	err := bindBallRequest(t, `{"striker_player_id":1,"bowler_id":2,"runs":-1}`)
	require.Error(t, err)
}

func TestOversNotation(t *testing.T) {
	assert.Equal(t, "0.0", oversNotation(0))
	assert.Equal(t, "0.5", oversNotation(5))
	assert.Equal(t, "1.0", oversNotation(6))
	assert.Equal(t, "7.1", oversNotation(43))
}
