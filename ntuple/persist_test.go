package ntuple

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"contrast/game"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.bin")
	s := game.NewGameState()

	trained := NewNetwork(Separate)
	for i := 0; i < 30; i++ {
		trained.TDUpdate(&s, 1.0, 0.2)
	}
	require.NoError(t, trained.Save(path))

	loaded := NewNetwork(Separate)
	require.NoError(t, loaded.Load(path))
	require.Equal(t, trained.Evaluate(&s), loaded.Evaluate(&s))
}

func TestLoadMismatchIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")

	f, err := os.Create(path)
	require.NoError(t, err)
	// a one-pattern file cannot match the sixteen-pattern topology
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint64(1)))
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint64(4)))
	require.NoError(t, binary.Write(f, binary.LittleEndian, []float32{1, 2, 3, 4}))
	require.NoError(t, f.Close())

	n := NewNetwork(Separate)
	s := game.NewGameState()
	before := n.Evaluate(&s)

	require.NoError(t, n.Load(path), "mismatch is silent")
	require.Equal(t, before, n.Evaluate(&s), "network untouched")
}

func TestLoadMissingFile(t *testing.T) {
	n := NewNetwork(Separate)
	require.Error(t, n.Load(filepath.Join(t.TempDir(), "absent.bin")))
}
