package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("Course not found.")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", Conflict("dup"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Something went wrong.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Something went wrong.: connection refused", err.Error())
	assert.Equal(t, "Something went wrong.", err.Message)
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Unauthorized("Unauthorized."), http.StatusUnauthorized))
	assert.False(t, Is(Unauthorized("Unauthorized."), http.StatusNotFound))
	assert.False(t, Is(errors.New("plain"), http.StatusUnauthorized))
}
