package halcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type readyFlag bool

func (r readyFlag) Ready() bool { return bool(r) }

type failed struct{ err error }

func (f failed) Err() error { return f.err }

func TestEdgeToString(t *testing.T) {
	assert.Equal(t, "rising", EdgeToString(EdgeRising))
	assert.Equal(t, "falling", EdgeToString(EdgeFalling))
	assert.Equal(t, "both", EdgeToString(EdgeBoth))
	assert.Equal(t, "none", EdgeToString(Edge(99)))
}

func TestEdgeToActive(t *testing.T) {
	assert.Equal(t, EdgeFalling, EdgeToActive(true))
	assert.Equal(t, EdgeRising, EdgeToActive(false))
}

func TestIsReady(t *testing.T) {
	assert.True(t, IsReady(readyFlag(true)))
	assert.False(t, IsReady(readyFlag(false)))
	assert.True(t, IsReady(struct{}{}))
	assert.False(t, IsReady(nil))
}

func TestPortErr(t *testing.T) {
	boom := errors.New("closed reader")
	assert.Equal(t, boom, PortErr(failed{boom}))
	assert.NoError(t, PortErr(failed{}))
	assert.NoError(t, PortErr(struct{}{}))
}
