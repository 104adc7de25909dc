package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/logging"
	"go.uber.org/goleak"
)

// execute runs a pristine command tree in an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logging.ResetForTest()
	oldHandler := errors.DefaultHandler
	t.Cleanup(func() {
		logging.ResetForTest()
		errors.SetHandler(oldHandler)
	})
	t.Chdir(t.TempDir())

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// rows parses the report table, skipping the header.
func rows(t *testing.T, out string) [][]string {
	t.Helper()
	var table [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 7 {
			table = append(table, fields)
		}
	}
	if len(table) == 0 || table[0][0] != "SCROLL" {
		t.Fatalf("no report table in output:\n%s", out)
	}
	return table[1:]
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("bad number %q: %v", s, err)
	}
	return n
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output %q should contain %q", out, Version)
	}
}

func TestConfigCommandAppliesOverrides(t *testing.T) {
	t.Setenv("VIRTUALSIM_SIMULATION_ITEMS", "42")
	out, err := execute(t, "config", "--viewport-height", "300", "--log-level", "warn")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"height: 300", "level: warn", "items: 42", "version: v1.0.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigFileVersionChecked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("version: v2.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "config", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("err = %v, want unsupported version", err)
	}
}

func TestRunFixedItems(t *testing.T) {
	out, err := execute(t, "run",
		"--items", "100",
		"--item-height", "50",
		"--viewport-height", "500",
		"--scroll", "0,2510",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	table := rows(t, out)
	if len(table) != 3 {
		t.Fatalf("got %d rows, want load + 2 scroll positions:\n%s", len(table), out)
	}

	// Eleven 50px items meet a 500px viewport when edges count; the rest
	// keep the default estimate.
	loaded := table[0]
	if got := atoi(t, loaded[1]); got != 11 {
		t.Errorf("visible after load = %d, want 11", got)
	}
	if loaded[2] != "0" || loaded[3] != "10" {
		t.Errorf("visible range after load = %s..%s, want 0..10", loaded[2], loaded[3])
	}
	if want := fmt.Sprint(11*50 + 89*100); loaded[5] != want {
		t.Errorf("total after load = %s, want %s", loaded[5], want)
	}

	scrolled := table[2]
	if scrolled[0] != "2510" {
		t.Errorf("scroll = %s, want 2510", scrolled[0])
	}
	if first := atoi(t, scrolled[2]); first <= 10 {
		t.Errorf("first visible after scrolling = %d, want past the initial range", first)
	}
}

func TestRunLoremItems(t *testing.T) {
	out, err := execute(t, "run", "--mode", "lorem", "--items", "20", "--seed", "7", "--scroll", "0")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	table := rows(t, out)
	if len(table) != 2 {
		t.Fatalf("got %d rows, want 2:\n%s", len(table), out)
	}
	if atoi(t, table[0][1]) == 0 {
		t.Errorf("no visible items after load:\n%s", out)
	}
}

func TestRunRealtime(t *testing.T) {
	defer goleak.VerifyNone(t)

	out, err := execute(t, "run",
		"--items", "50",
		"--scroll", "0,1000",
		"--realtime",
		"--interval", "1ms",
	)
	if err != nil {
		t.Fatalf("run --realtime: %v", err)
	}
	table := rows(t, out)
	if len(table) != 3 {
		t.Fatalf("got %d rows, want 3:\n%s", len(table), out)
	}
	if table[2][0] != "1000" {
		t.Errorf("scroll = %s, want 1000", table[2][0])
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if _, err := execute(t, "run", "--scroll", "up,down"); err == nil {
		t.Error("expected error for a malformed scroll script")
	}
	if _, err := execute(t, "run", "--mode", "random"); err == nil {
		t.Error("expected error for an unknown mode")
	}
	if _, err := execute(t, "run", "extra"); err == nil {
		t.Error("expected error for positional arguments")
	}
}

func TestHTMLFind(t *testing.T) {
	var page strings.Builder
	page.WriteString("<html><head><style>p{}</style></head><body>")
	for i := range 200 {
		fmt.Fprintf(&page, "<p>Paragraph %d of filler text.</p>", i)
	}
	page.WriteString(`<p id="target">The Needle is here.</p></body></html>`)

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "html", path, "--find", "needle")
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(out, `1 match(es) for "needle"`) {
		t.Errorf("missing match count:\n%s", out)
	}
	if !strings.Contains(out, "first match: p#target at ") {
		t.Errorf("missing first match:\n%s", out)
	}
	table := rows(t, out)
	if len(table) != 2 {
		t.Fatalf("got %d rows, want 2:\n%s", len(table), out)
	}
	if last := atoi(t, table[1][3]); last != 200 {
		t.Errorf("last visible after find = %d, want the target (200)", last)
	}
}

func TestHTMLMissingFile(t *testing.T) {
	if _, err := execute(t, "html", filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for a missing file")
	}
}
