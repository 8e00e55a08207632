package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampIntAndBoolToInt(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-5, 0, 10))
	assert.Equal(t, 10, ClampInt(15, 0, 10))
	assert.Equal(t, 7, ClampInt(7, 0, 10))
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}
