package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/persist"
)

// run executes the root command with args against a fresh CLI and returns
// what the command wrote to its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.ErrorLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"title=Revenue", "limit=10", "stacked=true", `tags=["a","b"]`, "label=\"quoted\""})
	if err != nil {
		t.Fatalf("parseParams() error: %v", err)
	}

	if got["title"] != "Revenue" {
		t.Errorf("title = %v, want Revenue", got["title"])
	}
	if got["limit"] != float64(10) {
		t.Errorf("limit = %v (%T), want 10", got["limit"], got["limit"])
	}
	if got["stacked"] != true {
		t.Errorf("stacked = %v, want true", got["stacked"])
	}
	if tags, ok := got["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("tags = %v, want two elements", got["tags"])
	}
	if got["label"] != "quoted" {
		t.Errorf("label = %v, want quoted", got["label"])
	}
}

func TestParseParamsInvalid(t *testing.T) {
	tests := []struct {
		name string
		pair string
	}{
		{"no separator", "title"},
		{"empty key", "=value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseParams([]string{tt.pair})
			if err == nil {
				t.Fatalf("parseParams(%q) should fail", tt.pair)
			}
		})
	}
}

func TestParsePair(t *testing.T) {
	x, y, err := parsePair("3", "14")
	if err != nil || x != 3 || y != 14 {
		t.Errorf("parsePair(3, 14) = %d, %d, %v", x, y, err)
	}
	for _, bad := range [][2]string{{"-1", "0"}, {"0", "x"}} {
		if _, _, err := parsePair(bad[0], bad[1]); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parsePair(%q, %q) error = %v, want INVALID_INPUT", bad[0], bad[1], err)
		}
	}
}

func TestParseViews(t *testing.T) {
	got, err := parseViews([]string{"revenue=orders, payments", "daily=revenue"})
	if err != nil {
		t.Fatalf("parseViews() error: %v", err)
	}
	if len(got["revenue"]) != 2 || got["revenue"][1] != "payments" {
		t.Errorf("revenue = %v, want [orders payments]", got["revenue"])
	}
	if len(got["daily"]) != 1 {
		t.Errorf("daily = %v, want [revenue]", got["daily"])
	}

	if _, err := parseViews([]string{"revenue"}); err == nil {
		t.Error("parseViews without bases should fail")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":            "svg",
		"canvas.png":  "png",
		"canvas.PDF":  "pdf",
		"canvas.dot":  "dot",
		"canvas.txt":  "text",
		"canvas.jpeg": "svg",
		"out/a.b.svg": "svg",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCommandsRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := run(t, "add", "metric", "--param", "title=Signups"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := run(t, "add", "metric"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "show", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	instances, err := persist.Decode([]byte(out))
	if err != nil {
		t.Fatalf("decode show output: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("got %d instances, want 2", len(instances))
	}
	first, second := instances[0], instances[1]
	if first.Params["title"] != "Signups" {
		t.Errorf("first title = %v, want Signups", first.Params["title"])
	}
	if second.Layout.X != first.Layout.W || second.Layout.Y != 0 {
		t.Errorf("second at (%d,%d), want (%d,0)", second.Layout.X, second.Layout.Y, first.Layout.W)
	}

	// Dropping the second widget on top of the first snaps it back.
	if _, err := run(t, "move", second.ID, "0", "0"); err != nil {
		t.Fatalf("move: %v", err)
	}
	out, _ = run(t, "show", "--json")
	instances, _ = persist.Decode([]byte(out))
	if instances[1].Layout.X != second.Layout.X {
		t.Errorf("colliding move was committed: x = %d", instances[1].Layout.X)
	}

	if _, err := run(t, "remove", first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := run(t, "remove", first.ID); !errors.Is(err, errors.ErrCodeNotFoundInstance) {
		t.Errorf("second remove error = %v, want NOT_FOUND_INSTANCE", err)
	}

	if _, err := run(t, "storage", "reset"); err != nil {
		t.Fatalf("storage reset: %v", err)
	}
	out, _ = run(t, "show", "--json")
	if strings.TrimSpace(out) != `{"widgetInstances":[]}` {
		t.Errorf("after reset show = %q", out)
	}
}

func TestCommandsMemoryBackendIsEphemeral(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := run(t, "--storage", "memory", "add", "metric"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "--storage", "memory", "show", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.TrimSpace(out) != `{"widgetInstances":[]}` {
		t.Errorf("memory backend kept state across runs: %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown widget", []string{"add", "nope"}, errors.ErrCodeNotFoundWidget},
		{"unknown instance", []string{"move", "nope", "1", "1"}, errors.ErrCodeNotFoundInstance},
		{"bad backend", []string{"--storage", "etcd", "show"}, errors.ErrCodeInvalidConfig},
		{"bad format", []string{"render", "--format", "gif"}, errors.ErrCodeInvalidInput},
		{"bad container", []string{"container", "0"}, errors.ErrCodeInvalidGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := run(t, "add", "metric"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "render", "--format", "text")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "AAAAAA") {
		t.Errorf("render text should start with the first widget's row, got %q", out)
	}
}

func TestStoragePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	out, err := run(t, "storage", "path")
	if err != nil {
		t.Fatalf("storage path: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), dir) || !strings.HasSuffix(strings.TrimSpace(out), ".json") {
		t.Errorf("storage path = %q, want a .json file under %s", out, dir)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"interrupted", context.Canceled, ExitInterrupted},
		{"bad input", errors.New(errors.ErrCodeInvalidInput, "x"), ExitInvalid},
		{"unknown instance", errors.New(errors.ErrCodeNotFoundInstance, "x"), ExitNotFound},
		{"forbidden", errors.New(errors.ErrCodeForbidden, "x"), ExitNotFound},
		{"storage", errors.Wrap(errors.ErrCodeStorage, io.ErrUnexpectedEOF, "x"), ExitStorage},
		{"plain", io.ErrUnexpectedEOF, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := run(t, "remove", "nope")
	var buf bytes.Buffer
	ReportError(&buf, err)

	got := buf.String()
	if !strings.Contains(got, `no widget instance "nope"`) || !strings.Contains(got, "NOT_FOUND_INSTANCE") {
		t.Errorf("ReportError() = %q", got)
	}
	if ExitCode(err) != ExitNotFound {
		t.Errorf("ExitCode() = %d, want %d", ExitCode(err), ExitNotFound)
	}
}
