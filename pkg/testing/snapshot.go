package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/virtualcontent/pkg/dom"
)

// UpdateSnapshotsEnv names the variable that rewrites golden files.
const UpdateSnapshotsEnv = "VIRTUALSIM_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile and the
// invariant checks, allowing test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures what the viewport shows and the scroll geometry.
type Snapshot struct {
	ScrollY     float64      `json:"scrollY"`
	TotalHeight float64      `json:"totalHeight"`
	Items       int          `json:"items"`
	Visible     int          `json:"visible"`
	Painted     []PaintedBox `json:"painted,omitempty"`
}

// PaintedBox is one element overlapping the viewport.
type PaintedBox struct {
	Index  int        `json:"index"`
	Label  string     `json:"label"`
	Offset [2]float64 `json:"offset"`
	Size   [2]float64 `json:"size"`
}

// CaptureSnapshot captures the current frame.
func (t *ContentTester) CaptureSnapshot() *Snapshot {
	container := t.doc.Container()
	index := make(map[*dom.ElementNode]int)
	items := 0
	for _, n := range container.Children() {
		if el, ok := n.(*dom.ElementNode); ok {
			index[el] = items
			items++
		}
	}

	snap := &Snapshot{
		ScrollY:     round2(t.doc.ScrollY()),
		TotalHeight: round2(t.content.TotalHeight()),
		Items:       items,
		Visible:     len(t.content.VisibleItems()),
	}
	for _, box := range container.Painted() {
		snap.Painted = append(snap.Painted, PaintedBox{
			Index:  index[box.Element],
			Label:  box.Element.String(),
			Offset: [2]float64{round2(box.Rect.Left), round2(box.Rect.Top)},
			Size:   [2]float64{round2(box.Rect.Width()), round2(box.Rect.Height())},
		})
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// VIRTUALSIM_UPDATE_SNAPSHOTS=1 is set, the file is silently updated
// instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
