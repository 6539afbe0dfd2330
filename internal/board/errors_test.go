package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrTransient(t *testing.T) {
	err := fmt.Errorf("attempt 1: %w", &ErrTransient{Op: "CreateJob"})
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "simulated server error during CreateJob")
	assert.False(t, IsTransient(errors.New("other")))
}

func TestErrInvalidOrder(t *testing.T) {
	err := &ErrInvalidOrder{From: 2, To: 9, Count: 4}
	assert.True(t, IsInvalidOrder(err))
	assert.Equal(t, "invalid order: cannot move job from 2 to 9, positions are 1..4", err.Error())
	assert.False(t, IsInvalidOrder(&ErrTransient{}))
}
