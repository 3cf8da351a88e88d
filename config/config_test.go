package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServerPort(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("CONTRAST_SERVER_PORT", "9999")
		require.Equal(t, 4321, ServerPort([]string{"--port", "4321"}))
		require.Equal(t, 4321, ServerPort([]string{"--port=4321"}))
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("CONTRAST_SERVER_PORT", "9999")
		require.Equal(t, 9999, ServerPort(nil))
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("CONTRAST_SERVER_PORT", "")
		require.Equal(t, DefaultServerPort, ServerPort(nil))
	})

	t.Run("out of range falls back", func(t *testing.T) {
		require.Equal(t, DefaultServerPort, ServerPort([]string{"--port", "70000"}))
		require.Equal(t, DefaultServerPort, ServerPort([]string{"--port", "zero"}))
	})
}

func TestMoveTime(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv("CONTRAST_MOVE_TIME", "")
		require.Equal(t, time.Duration(0), MoveTime())
	})

	t.Run("decimal seconds", func(t *testing.T) {
		t.Setenv("CONTRAST_MOVE_TIME", "1.5")
		require.Equal(t, 1500*time.Millisecond, MoveTime())
	})

	t.Run("garbage ignored", func(t *testing.T) {
		t.Setenv("CONTRAST_MOVE_TIME", "soon")
		require.Equal(t, time.Duration(0), MoveTime())
	})
}
