package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdstream/pkg/config"
)

func baseOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	// Temp directory with no config files
	tmpDir := t.TempDir()

	result, err := Load(context.Background(), baseOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	if result.Config.Flavor != config.FlavorCommonMark {
		t.Errorf("expected flavor %q, got %q", config.FlavorCommonMark, result.Config.Flavor)
	}
	if !result.Config.SkipBOM {
		t.Error("expected SkipBOM default to be true")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configContent := `
flavor: gfm
extensions:
  - math
  - wiki-links
xhtml: true
`
	configPath := filepath.Join(tmpDir, ".mdstream.yml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), baseOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor gfm, got %q", result.Config.Flavor)
	}
	if len(result.Config.Extensions) != 2 {
		t.Errorf("expected 2 extensions, got %v", result.Config.Extensions)
	}
	if !result.Config.XHTML {
		t.Error("expected XHTML to be true")
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != configPath {
		t.Errorf("expected LoadedFrom [%s], got %v", configPath, result.LoadedFrom)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	explicitPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(explicitPath, []byte("flavor: gfm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := baseOptions(tmpDir)
	opts.ExplicitPath = explicitPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor gfm, got %q", result.Config.Flavor)
	}
	if result.Paths.Explicit != explicitPath {
		t.Errorf("expected explicit path %q, got %q", explicitPath, result.Paths.Explicit)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	opts := baseOptions(tmpDir)
	opts.ExplicitPath = filepath.Join(tmpDir, "missing.yaml")

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_CLIOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".mdstream.yml")
	if err := os.WriteFile(configPath, []byte("flavor: commonmark\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := baseOptions(tmpDir)
	opts.CLIConfig = &config.Config{Flavor: config.FlavorGFM, Output: "out.html"}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected CLI flavor gfm to win, got %q", result.Config.Flavor)
	}
	if result.Config.Output != "out.html" {
		t.Errorf("expected output out.html, got %q", result.Config.Output)
	}
}

func TestLoad_EnvOverridesProject(t *testing.T) {
	// Not parallel: sets process environment.
	t.Setenv("MDSTREAM_FLAVOR", "gfm")
	t.Setenv("MDSTREAM_EXTENSIONS", "math, underline")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mdstream.yml")
	if err := os.WriteFile(configPath, []byte("flavor: commonmark\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := baseOptions(tmpDir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Flavor != config.FlavorGFM {
		t.Errorf("expected env flavor gfm, got %q", result.Config.Flavor)
	}
	want := []string{"math", "underline"}
	if len(result.Config.Extensions) != len(want) {
		t.Fatalf("expected extensions %v, got %v", want, result.Config.Extensions)
	}
	for i, ext := range want {
		if result.Config.Extensions[i] != ext {
			t.Errorf("extension[%d] = %q, want %q", i, result.Config.Extensions[i], ext)
		}
	}
}

func TestLoad_InvalidFlavorRejected(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mdstream.yml")
	if err := os.WriteFile(configPath, []byte("flavor: pandoc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), baseOptions(tmpDir))
	if err == nil {
		t.Fatal("expected validation error for invalid flavor")
	}
	if !strings.Contains(err.Error(), "invalid flavor") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidExtensionRejected(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".mdstream.yml")
	if err := os.WriteFile(configPath, []byte("extensions: [footnotes]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), baseOptions(tmpDir))
	if err == nil {
		t.Fatal("expected validation error for unknown extension")
	}
	if !strings.Contains(err.Error(), "unknown extension") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	// Config above a VCS root must not be found.
	if err := os.WriteFile(filepath.Join(tmpDir, ".mdstream.yml"), []byte("flavor: gfm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	repo := filepath.Join(tmpDir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(repo, "docs")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectConfig(context.Background(), nested)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if found != "" {
		t.Errorf("expected no config (stopped at VCS root), got %q", found)
	}
}

func TestFindProjectConfig_UpwardSearch(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, ".mdstream.yaml")
	if err := os.WriteFile(configPath, []byte("flavor: gfm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectConfig(context.Background(), nested)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if found != configPath {
		t.Errorf("expected %q, got %q", configPath, found)
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Extensions: []string{"math", "math"},
	}

	result := Validate(cfg)
	if !result.Valid() {
		t.Fatalf("expected valid config, got errors: %v", result.Errors)
	}
	if !result.HasWarnings() {
		t.Fatal("expected duplicate extension warning")
	}
	if !strings.Contains(result.Warnings[0].Message, "duplicate") {
		t.Errorf("unexpected warning: %v", result.Warnings[0])
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	mid := &config.Config{Flavor: config.FlavorGFM}
	top := &config.Config{Extensions: []string{"math"}}

	merged := MergeAll(base, mid, top)
	if merged.Flavor != config.FlavorGFM {
		t.Errorf("expected gfm, got %q", merged.Flavor)
	}
	if len(merged.Extensions) != 1 || merged.Extensions[0] != "math" {
		t.Errorf("expected [math], got %v", merged.Extensions)
	}
	if !merged.SkipBOM {
		t.Error("expected SkipBOM default to survive merge")
	}
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := config.NewConfig()
	cfg.Flavor = config.FlavorGFM

	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "# mdstream configuration") {
		t.Error("expected header comment in written config")
	}
	if !strings.Contains(string(content), "flavor: gfm") {
		t.Error("expected flavor in written config")
	}
}
