package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		total, completed int
		want             int
		done             bool
	}{
		{0, 0, 0, false},
		{3, 0, 0, false},
		{3, 1, 33, false},
		{3, 2, 67, false},
		{3, 3, 100, true},
		{8, 1, 13, false},
	}
	for _, tc := range cases {
		p := ComputeProgress("c1", tc.total, tc.completed)
		assert.Equal(t, tc.want, p.Progress, "total=%d completed=%d", tc.total, tc.completed)
		assert.Equal(t, tc.done, p.IsCompleted)
		assert.Equal(t, "c1", p.CourseID)
	}
}

func TestUserJSONOmitsCredentials(t *testing.T) {
	token := "digest"
	u := User{ID: "u1", Username: "alice", Email: "a@example.com", Password: "hash", RefreshToken: &token}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "digest")

	clean := u.Sanitized()
	assert.Empty(t, clean.Password)
	assert.Nil(t, clean.RefreshToken)
	assert.Equal(t, "hash", u.Password)
}
