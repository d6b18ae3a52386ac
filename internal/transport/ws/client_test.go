package ws

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"wordduel/internal/domain"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidLength, "The word must be exactly 5 letters!"},
		{domain.ErrInvalidWord, "The word may only contain letters!"},
		{domain.ErrNotYourTurn, "It's not your turn!"},
		{domain.ErrInvalidState, "You can't do that right now."},
		{domain.ErrRoomFull, "The room is already full."},
		{domain.ErrRoomNotFound, "Room not found. Check the code."},
		{fmt.Errorf("wrapped: %w", domain.ErrNotYourTurn), "It's not your turn!"},
		{fmt.Errorf("something else"), "something else"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorMessage(tt.err))
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABCD", normalizeCode(" abcd "))
	assert.Equal(t, "WXYZ", normalizeCode("WxYz"))
}
