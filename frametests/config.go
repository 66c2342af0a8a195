package frametests

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/frameharness/frame-harness/docdef"
)

const (
	DefaultWaitTimeout  = time.Second * 5
	DefaultPollInterval = time.Millisecond * 50

	fixtureFileSuffix = ".json"
)

// SuiteConfig controls a run of the contract tests.
type SuiteConfig struct {
	FixturesDir  string
	WaitTimeout  time.Duration
	PollInterval time.Duration
	Fixtures     []FixtureConfig
}

// FixtureConfig describes one fixture document. File is relative to FixturesDir. Missing lists
// names that must not be defined in the fixture's global scope.
type FixtureConfig struct {
	Name    string   `toml:"name"`
	File    string   `toml:"file"`
	Style   string   `toml:"style"`
	Missing []string `toml:"missing"`
}

type fileConfig struct {
	FixturesDir  string          `toml:"fixtures_dir"`
	WaitTimeout  string          `toml:"wait_timeout"`
	PollInterval string          `toml:"poll_interval"`
	Fixtures     []FixtureConfig `toml:"fixture"`
}

func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		WaitTimeout:  DefaultWaitTimeout,
		PollInterval: DefaultPollInterval,
	}
}

// LoadSuiteConfig reads a TOML suite file. A relative fixtures_dir is taken relative to the
// directory of the file, which is also the default.
func LoadSuiteConfig(path string) (SuiteConfig, error) {
	cfg := DefaultSuiteConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return SuiteConfig{}, fmt.Errorf("load suite config: %w", err)
	}

	cfg.FixturesDir = filepath.Dir(path)
	if meta.IsDefined("fixtures_dir") {
		dir := strings.TrimSpace(raw.FixturesDir)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		cfg.FixturesDir = dir
	}

	if meta.IsDefined("wait_timeout") {
		d, err := parsePositiveDuration(raw.WaitTimeout)
		if err != nil {
			return SuiteConfig{}, fmt.Errorf("parse wait_timeout: %w", err)
		}
		cfg.WaitTimeout = d
	}

	if meta.IsDefined("poll_interval") {
		d, err := parsePositiveDuration(raw.PollInterval)
		if err != nil {
			return SuiteConfig{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}

	for i, f := range raw.Fixtures {
		if strings.TrimSpace(f.File) == "" {
			return SuiteConfig{}, fmt.Errorf("fixture %d has no file", i+1)
		}
		if f.Name == "" {
			f.Name = fixtureNameFromFile(f.File)
		}
		cfg.Fixtures = append(cfg.Fixtures, f)
	}
	return cfg, nil
}

// ScanFixturesDir returns a FixtureConfig for every JSON file in dir, sorted by name.
func ScanFixturesDir(dir string) ([]FixtureConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures directory: %w", err)
	}
	var ret []FixtureConfig
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fixtureFileSuffix) {
			continue
		}
		ret = append(ret, FixtureConfig{Name: fixtureNameFromFile(e.Name()), File: e.Name()})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret, nil
}

// LoadFixtures reads and parses every fixture file named by the config. If the config names
// none, every JSON file in the fixtures directory is used.
func LoadFixtures(cfg SuiteConfig) ([]Fixture, error) {
	configs := cfg.Fixtures
	if len(configs) == 0 {
		scanned, err := ScanFixturesDir(cfg.FixturesDir)
		if err != nil {
			return nil, err
		}
		configs = scanned
	}
	ret := make([]Fixture, 0, len(configs))
	for _, fc := range configs {
		path := fc.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.FixturesDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", fc.Name, err)
		}
		doc, err := docdef.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", fc.Name, err)
		}
		ret = append(ret, Fixture{
			Name:     fc.Name,
			Document: doc,
			Style:    fc.Style,
			Missing:  fc.Missing,
		})
	}
	return ret, nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

func fixtureNameFromFile(file string) string {
	return strings.TrimSuffix(filepath.Base(file), fixtureFileSuffix)
}
