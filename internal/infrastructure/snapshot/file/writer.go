// Package file writes turn snapshots of an instance graph to disk as
// indented JSON, optionally zstd compressed.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
)

const (
	timestampLayout = "20060102150405"
	zstdExt         = ".zst"

	// maxSequence bounds the suffixes tried when snapshots of the same
	// instance and phase land in the same second.
	maxSequence = 1000
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Writer implements ports.SnapshotWriter on a local directory.
type Writer struct {
	dir      string
	compress bool
}

// NewWriter creates a snapshot writer rooted at dir.
func NewWriter(dir string, compress bool) *Writer {
	return &Writer{dir: dir, compress: compress}
}

// Dir returns the snapshot directory.
func (w *Writer) Dir() string {
	return w.dir
}

// FileName returns the snapshot file name for an instance and phase.
func FileName(instanceID int64, phase ports.SnapshotPhase, at time.Time, compress bool) string {
	return sequencedName(instanceID, phase, at, 0, compress)
}

// sequencedName appends _<seq> to the timestamp for seq > 0.
func sequencedName(instanceID int64, phase ports.SnapshotPhase, at time.Time, seq int, compress bool) string {
	name := fmt.Sprintf("GameInstance_%d_%s_%s", instanceID, phase, at.Format(timestampLayout))
	if seq > 0 {
		name += fmt.Sprintf("_%d", seq)
	}
	name += ".json"
	if compress {
		name += zstdExt
	}
	return name
}

// create opens a new snapshot file, never overwriting an earlier one.
func (w *Writer) create(instanceID int64, phase ports.SnapshotPhase, at time.Time) (*os.File, error) {
	for seq := 0; seq < maxSequence; seq++ {
		path := filepath.Join(w.dir, sequencedName(instanceID, phase, at, seq, w.compress))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("too many snapshots for instance %d at %s", instanceID, at.Format(timestampLayout))
}

// printable returns graph, or a copy of it in which every attribute and
// state value that is not valid JSON is replaced by its text as a JSON
// string.
func printable(graph *entities.Graph) *entities.Graph {
	if allValid(graph) {
		return graph
	}
	c := graph.Clone()
	for _, e := range c.Entities {
		for _, a := range e.Attributes {
			a.Value = quoteInvalid(a.Value)
		}
	}
	for _, st := range c.States {
		st.Value = quoteInvalid(st.Value)
	}
	return c
}

func allValid(graph *entities.Graph) bool {
	for _, e := range graph.Entities {
		for _, a := range e.Attributes {
			if !validRaw(a.Value) {
				return false
			}
		}
	}
	for _, st := range graph.States {
		if !validRaw(st.Value) {
			return false
		}
	}
	return true
}

func validRaw(v json.RawMessage) bool {
	return v == nil || json.Valid(v)
}

func quoteInvalid(v json.RawMessage) json.RawMessage {
	if validRaw(v) {
		return v
	}
	quoted, _ := json.Marshal(string(v))
	return quoted
}

// WriteSnapshot writes the graph to a new file in the snapshot directory.
// Values that are not valid JSON are stored as JSON strings.
func (w *Writer) WriteSnapshot(ctx context.Context, instanceID int64, phase ports.SnapshotPhase, graph *entities.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(printable(graph), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	f, err := w.create(instanceID, phase, timeNow())
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	if !w.compress {
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if _, err := bw.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing zstd encoder: %w", err)
	}
	return f.Close()
}

// ReadSnapshot reads a snapshot written by WriteSnapshot. Files ending in
// .zst are decompressed.
func ReadSnapshot(path string) (*entities.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdExt) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var graph entities.Graph
	if err := json.NewDecoder(bufio.NewReaderSize(r, 256*1024)).Decode(&graph); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &graph, nil
}
