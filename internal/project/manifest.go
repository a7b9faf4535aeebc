package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded cavvy.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest sections.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig holds the emit settings. Relative paths are resolved against
// the manifest directory by Load.
type BuildConfig struct {
	Inputs           []string `toml:"inputs"`
	OutDir           string   `toml:"out_dir"`
	Target           string   `toml:"target"`
	ConsoleCodePage  int      `toml:"console_codepage"`
	EntryClass       string   `toml:"entry_class"`
	NormalizeStrings bool     `toml:"normalize_strings"`
	Cache            bool     `toml:"cache"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// DefaultOutDir is used when [build].out_dir is absent.
const DefaultOutDir = "build"

var traceLevels = []string{"", "off", "error", "phase", "detail", "debug"}

// Load finds cavvy.toml above startDir and loads it. ok is false when no
// manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile parses and validates one manifest.
func LoadFile(path string) (*Manifest, error) {
	cfg := Config{Build: BuildConfig{NormalizeStrings: true, Cache: true}}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if cp := cfg.Build.ConsoleCodePage; cp < 0 || cp > 65535 {
		return nil, fmt.Errorf("%s: [build].console_codepage %d out of range", path, cp)
	}
	if !slices.Contains(traceLevels, cfg.Trace.Level) {
		return nil, fmt.Errorf("%s: unknown [trace].level %q", path, cfg.Trace.Level)
	}

	root := filepath.Dir(path)
	if !meta.IsDefined("build", "out_dir") || strings.TrimSpace(cfg.Build.OutDir) == "" {
		cfg.Build.OutDir = DefaultOutDir
	}
	cfg.Build.OutDir = resolve(root, cfg.Build.OutDir)
	for i, in := range cfg.Build.Inputs {
		cfg.Build.Inputs[i] = resolve(root, in)
	}
	if cfg.Trace.Output != "" && cfg.Trace.Output != "-" {
		cfg.Trace.Output = resolve(root, cfg.Trace.Output)
	}
	return &Manifest{Path: path, Root: root, Config: cfg}, nil
}

func resolve(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
