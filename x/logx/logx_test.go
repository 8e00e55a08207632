package logx

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineFormat(t *testing.T) {
	var out bytes.Buffer
	l := New("button_click_led", LevelDebug)
	l.SetOutput(&out)

	l.Warn("button pressed")
	l.Debug("rx", Byte("b", '1'), Int("len", 1), Str("pin", "a"))
	l.Error("setup", Err(errors.New("not_ready")))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"[button_click_led] WRN button pressed",
		"[button_click_led] DBG rx b=0x31 len=1 pin=a",
		"[button_click_led] ERR setup err=not_ready",
	}, lines)
}

func TestLevelFilter(t *testing.T) {
	var out bytes.Buffer
	l := New("m", LevelWarn)
	l.SetOutput(&out)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown", Uint32("n", 3))
	assert.Equal(t, "[m] WRN shown n=3\n", out.String())
	assert.False(t, l.Enabled(LevelInfo))

	l.SetLevel(LevelOff)
	l.Error("hidden")
	assert.Equal(t, "[m] WRN shown n=3\n", out.String())
}

func TestLongLinesAreTruncated(t *testing.T) {
	var out bytes.Buffer
	l := New("m", LevelDebug)
	l.SetOutput(&out)

	l.Info(strings.Repeat("x", 400))
	assert.Len(t, out.Bytes(), lineMax)
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}
