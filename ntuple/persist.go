package ntuple

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// Weight file layout, all integers uint64 little-endian, weights float32:
//
//	pattern count
//	per pattern: table size, table
//	hand table size, hand table
//	(Separate only) tile pattern count, then per pattern: size, table

// Save writes the weight tables to path.
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeTables(w, n.weights); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	if err := writeTable(w, n.handWeights); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	if n.encoding == Separate {
		if err := writeTables(w, n.tileWeights); err != nil {
			return fmt.Errorf("save weights: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

// Load replaces the weight tables with the file's contents. A file whose
// pattern counts or table sizes disagree with the in-memory topology leaves
// the network untouched; the load is reported at debug level only, so callers
// that care must verify via a subsequent evaluation.
func (n *Network) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	weights, ok, err := readTables(r, n.weights)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}
	if !ok {
		log.Debug().Str("path", path).Msg("weight file topology mismatch, load skipped")
		return nil
	}
	hand, ok, err := readTable(r, len(n.handWeights))
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}
	if !ok {
		log.Debug().Str("path", path).Msg("weight file hand table mismatch, load skipped")
		return nil
	}
	var tiles [][]float32
	if n.encoding == Separate {
		tiles, ok, err = readTables(r, n.tileWeights)
		if err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
		if !ok {
			log.Debug().Str("path", path).Msg("weight file tile tables mismatch, load skipped")
			return nil
		}
	}

	n.weights = weights
	n.handWeights = hand
	if n.encoding == Separate {
		n.tileWeights = tiles
	}
	return nil
}

func writeTables(w io.Writer, tables [][]float32) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(tables))); err != nil {
		return err
	}
	for _, t := range tables {
		if err := writeTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, table []float32) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(table))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, table)
}

// readTables stages the file's tables; ok is false on a count or size
// mismatch against want.
func readTables(r io.Reader, want [][]float32) ([][]float32, bool, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, false, err
	}
	if count != uint64(len(want)) {
		return nil, false, nil
	}
	tables := make([][]float32, len(want))
	for i := range want {
		t, ok, err := readTable(r, len(want[i]))
		if err != nil || !ok {
			return nil, ok, err
		}
		tables[i] = t
	}
	return tables, true, nil
}

func readTable(r io.Reader, wantSize int) ([]float32, bool, error) {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, false, err
	}
	if size != uint64(wantSize) {
		return nil, false, nil
	}
	table := make([]float32, size)
	if err := binary.Read(r, binary.LittleEndian, table); err != nil {
		return nil, false, err
	}
	return table, true, nil
}
