package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad amount"), fiber.StatusBadRequest},
		{"authentication", Authentication("invalid credentials"), fiber.StatusUnauthorized},
		{"authorization", Authorization("not yours"), fiber.StatusForbidden},
		{"not found", NotFound("no such user"), fiber.StatusNotFound},
		{"conflict", Conflict("already approved"), fiber.StatusConflict},
		{"dependency", Dependency("mail failed", errors.New("smtp timeout")), fiber.StatusBadGateway},
		{"internal", Internal("boom", errors.New("nil deref")), fiber.StatusInternalServerError},
		{"plain error", errors.New("driver: bad connection"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessageNeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "Something went wrong", Message(errors.New("pq: duplicate key")))
	assert.Equal(t, "Something went wrong", Message(Internal("db write failed", errors.New("pq: deadlock"))))
	assert.Equal(t, "already approved", Message(Conflict("already approved")))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("approving request: %w", Conflict("funding request is not pending"))
	assert.True(t, errors.Is(err, Conflict("")))
	assert.False(t, errors.Is(err, NotFound("")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("smtp timeout")
	err := Dependency("mail failed", cause)
	assert.True(t, errors.Is(err, cause))
}
