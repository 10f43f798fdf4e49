package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type yamlTestCLI struct {
	Window         int     `default:"8192"`
	Bins           int     `default:"100"`
	WindowFunction string  `default:"hann"`
	Volume         float64 `default:"0.5"`
	Mute           bool
	Config         kong.ConfigFlag
}

func parseWithConfig(t *testing.T, yamlDoc string, args ...string) *yamlTestCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), "jivescope.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	var cli yamlTestCLI
	parser, err := kong.New(&cli, kong.Configuration(YAMLLoader))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	if _, err := parser.Parse(append([]string{"--config", path}, args...)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return &cli
}

// TestYAMLLoader_AppliesFileValues verifies config file values replace flag
// defaults, including keys written with underscores.
func TestYAMLLoader_AppliesFileValues(t *testing.T) {
	cli := parseWithConfig(t, `
window: 4096
bins: 64
window_function: blackman-harris
volume: 0.25
mute: true
`)

	if cli.Window != 4096 {
		t.Errorf("Window = %d, want 4096", cli.Window)
	}
	if cli.Bins != 64 {
		t.Errorf("Bins = %d, want 64", cli.Bins)
	}
	if cli.WindowFunction != "blackman-harris" {
		t.Errorf("WindowFunction = %q, want blackman-harris", cli.WindowFunction)
	}
	if cli.Volume != 0.25 {
		t.Errorf("Volume = %g, want 0.25", cli.Volume)
	}
	if !cli.Mute {
		t.Error("Mute = false, want true")
	}
}

// TestYAMLLoader_FlagsWin verifies command line flags override the file.
func TestYAMLLoader_FlagsWin(t *testing.T) {
	cli := parseWithConfig(t, "bins: 64\n", "--bins", "32")

	if cli.Bins != 32 {
		t.Errorf("Bins = %d, want 32 from the command line", cli.Bins)
	}
	if cli.Window != DefaultWindowSize {
		t.Errorf("Window = %d, want default %d", cli.Window, DefaultWindowSize)
	}
}

// TestYAMLLoader_Errors covers malformed documents and nested values.
func TestYAMLLoader_Errors(t *testing.T) {
	if _, err := YAMLLoader(strings.NewReader("window: [1, 2")); err == nil {
		t.Error("expected parse error for malformed YAML")
	}

	resolver, err := YAMLLoader(strings.NewReader("bins:\n  left: 1\n"))
	if err != nil {
		t.Fatalf("YAMLLoader: %v", err)
	}
	if _, err := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "bins"}}); err == nil {
		t.Error("expected error for nested value")
	}
}

// TestYAMLLoader_EmptyFile verifies an empty file leaves defaults alone.
func TestYAMLLoader_EmptyFile(t *testing.T) {
	cli := parseWithConfig(t, "")
	if cli.Bins != DefaultBins {
		t.Errorf("Bins = %d, want default %d", cli.Bins, DefaultBins)
	}
}
