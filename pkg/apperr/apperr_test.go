package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Authentication("no token"), http.StatusUnauthorized},
		{Authorization("not yours"), http.StatusForbidden},
		{NotFound("match"), http.StatusNotFound},
		{Conflict("already completed"), http.StatusConflict},
		{Internal(errors.New("db gone")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, Status(tc.err), tc.err.Error())
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"))
	assert.NotContains(t, Message(err), "connection refused")

	assert.Equal(t, "match not found", Message(NotFound("match")))
}

func TestIsKind(t *testing.T) {
	err := Conflict("taken")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindInternal, "wrapped", cause)
	assert.True(t, errors.Is(err, cause))
}
