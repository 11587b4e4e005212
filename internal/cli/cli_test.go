package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/worldfile"
)

func newTestCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

// writeWorld writes the sample world into a temp dir and returns its path.
func writeWorld(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI().RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()
	want := []string{"shuffle", "check", "graph", "serve", "cache", "example", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestShuffleCommand(t *testing.T) {
	world := writeWorld(t, worldfile.Example)
	out := filepath.Join(t.TempDir(), "result.json")

	if err := execute(t, "shuffle", world, "--seed", "5", "--no-cache", "-o", out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Seed       uint64            `json:"seed"`
		Assignment map[string]string `json:"assignment"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if res.Seed != 5 {
		t.Errorf("seed = %d, want 5", res.Seed)
	}
	if len(res.Assignment) != 6 {
		t.Errorf("assignment has %d slots, want 6: %v", len(res.Assignment), res.Assignment)
	}
}

func TestShuffleCommandUsesCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	world := writeWorld(t, worldfile.Example)

	if err := execute(t, "shuffle", world, "--seed", "5"); err != nil {
		t.Fatal(err)
	}
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected cached entries")
	}

	if err := execute(t, "cache", "stats"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestShuffleCommandErrors(t *testing.T) {
	world := writeWorld(t, worldfile.Example)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"shuffle", filepath.Join(t.TempDir(), "nope.toml"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"bad seed", []string{"shuffle", world, "--seed=abc", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"too parallel", []string{"shuffle", world, "-p", "1000", "--no-cache"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	if err := execute(t, "check", writeWorld(t, worldfile.Example), "--no-cache"); err != nil {
		t.Fatal(err)
	}

	stranded := writeWorld(t, []byte(`
[[item]]
name = "a"

[[location]]
name = "start"
start = true

[[location]]
name = "island"

[[slot]]
name = "beach"
location = "start"

[[slot]]
name = "goal"
location = "island"
win = true
`))
	if err := execute(t, "check", stranded, "--no-cache"); !errors.Is(err, errors.ErrCodeUnreachable) {
		t.Errorf("err = %v, want UNREACHABLE", err)
	}
}

func TestGraphCommand(t *testing.T) {
	world := writeWorld(t, worldfile.Example)
	out := filepath.Join(t.TempDir(), "world.dot")

	if err := execute(t, "graph", world, "-f", "dot", "-o", out, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("not DOT output: %.40s", data)
	}

	if err := execute(t, "graph", world, "-f", "png", "--no-cache"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestExampleCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "example.toml")
	if err := execute(t, "example", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(worldfile.Example) {
		t.Error("example output differs from the bundled world")
	}
}

func TestResolveSeed(t *testing.T) {
	seed, err := resolveSeed("123")
	if err != nil || seed != 123 {
		t.Errorf("resolveSeed(123) = %d, %v", seed, err)
	}
	if _, err := resolveSeed(""); err != nil {
		t.Errorf("resolveSeed(\"\") error: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := execute(t, "completion", shell); err != nil {
			t.Errorf("%s: %v", shell, err)
		}
	}
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
