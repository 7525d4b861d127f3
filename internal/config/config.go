// Package config is the typed replacement for the protocol's prompt-driven
// parameter gathering. Every run is described by one YAML file validated
// before any computation begins: missing or out-of-range fields surface as
// FieldErrors, not as mid-run prompts. The single retry the protocol keeps
// ("try one alternate filename, then fail") is expressed as the *_fallback
// fields.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is where the tool looks for a config when none is given.
const DefaultFileName = "lipidens.yaml"

const defaultConfigYAML = `# lipidens run configuration
#
# Replicate data is expected under <base_dir>/run1 .. run<replicates>, each
# holding <trajectory_file> and <topology_file>. When a default filename is
# absent, the matching *_fallback name is tried exactly once before the run
# aborts.

base_dir: .
bilayer: "POPC"
# lipids: [POPC]         # overrides bilayer parsing when set
lipid_atoms: []          # empty = all atoms of the lipid molecule

replicates: 2
subunits: 1
stride: 1
time_unit: us
frame_time: 0.01         # time between stored frames, in time_unit

trajectory_file: md_stride.xtc
trajectory_fallback: ""
topology_file: md_stride_firstframe.gro
topology_fallback: ""

lower_cutoffs: [0.4, 0.45, 0.5, 0.55]
upper_cutoffs: [0.6, 0.65, 0.7, 0.75, 0.8]

contact_frames: 10
distance_threshold: 0.65
histogram_bins: 200
`

// Config models one protocol run.
type Config struct {
	// BaseDir is the directory holding the run<N> replicate directories and
	// receiving the output tree.
	BaseDir string `yaml:"base_dir"`

	// Bilayer is the membrane composition string lipid names are extracted
	// from when Lipids is empty, e.g. "POPC:POPE 3:1".
	Bilayer string `yaml:"bilayer"`
	// Lipids lists lipid residue names explicitly, overriding Bilayer.
	Lipids []string `yaml:"lipids"`
	// LipidAtoms optionally restricts the lipid atoms used in distance
	// computations.
	LipidAtoms []string `yaml:"lipid_atoms"`

	Replicates int     `yaml:"replicates"`
	Subunits   int     `yaml:"subunits"`
	Stride     int     `yaml:"stride"`
	TimeUnit   string  `yaml:"time_unit"`
	FrameTime  float64 `yaml:"frame_time"`

	TrajectoryFile     string `yaml:"trajectory_file"`
	TrajectoryFallback string `yaml:"trajectory_fallback"`
	TopologyFile       string `yaml:"topology_file"`
	TopologyFallback   string `yaml:"topology_fallback"`

	LowerCutoffs []float64 `yaml:"lower_cutoffs"`
	UpperCutoffs []float64 `yaml:"upper_cutoffs"`

	ContactFrames     int     `yaml:"contact_frames"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
	HistogramBins     int     `yaml:"histogram_bins"`
}

// Default returns the configuration the default YAML template describes.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), cfg); err != nil {
		// The template is a compile-time constant; failing to parse it is a
		// programming error.
		panic(fmt.Sprintf("config: default template: %v", err))
	}
	return cfg
}

// Load reads and validates a config file. Fields absent from the file keep
// their default values so a sparse file stays usable.
func Load(path string) (*Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(blob, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefault writes the commented default template, refusing to clobber
// an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks every field before computation starts. All problems are
// reported together via errors.Join so a user can fix the file in one pass.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, reason string) {
		errs = append(errs, &FieldError{Field: field, Reason: reason})
	}

	if c.BaseDir == "" {
		fail("base_dir", "must not be empty")
	}
	if len(c.Lipids) == 0 && len(ExtractLipids(c.Bilayer)) == 0 {
		fail("bilayer", "no lipid names found; set bilayer or lipids")
	}
	if c.Replicates < 1 {
		fail("replicates", fmt.Sprintf("must be >= 1, got %d", c.Replicates))
	}
	if c.Subunits < 1 {
		fail("subunits", fmt.Sprintf("must be >= 1, got %d", c.Subunits))
	}
	if c.Stride < 1 {
		fail("stride", fmt.Sprintf("must be >= 1, got %d", c.Stride))
	}
	if c.TimeUnit != "us" && c.TimeUnit != "ns" {
		fail("time_unit", fmt.Sprintf("must be us or ns, got %q", c.TimeUnit))
	}
	if c.FrameTime <= 0 {
		fail("frame_time", "must be positive")
	}
	if c.TrajectoryFile == "" {
		fail("trajectory_file", "must not be empty")
	}
	if c.TopologyFile == "" {
		fail("topology_file", "must not be empty")
	}
	if len(c.LowerCutoffs) == 0 {
		fail("lower_cutoffs", "must list at least one value")
	}
	if len(c.UpperCutoffs) == 0 {
		fail("upper_cutoffs", "must list at least one value")
	}
	for i, v := range c.LowerCutoffs {
		if v <= 0 {
			fail("lower_cutoffs", fmt.Sprintf("entry %d must be positive, got %v", i, v))
		}
	}
	for i, v := range c.UpperCutoffs {
		if v <= 0 {
			fail("upper_cutoffs", fmt.Sprintf("entry %d must be positive, got %v", i, v))
		}
	}
	if c.ContactFrames < 1 {
		fail("contact_frames", fmt.Sprintf("must be >= 1, got %d", c.ContactFrames))
	}
	if c.DistanceThreshold <= 0 {
		fail("distance_threshold", "must be positive")
	}
	if c.HistogramBins < 1 {
		fail("histogram_bins", fmt.Sprintf("must be >= 1, got %d", c.HistogramBins))
	}
	return errors.Join(errs...)
}

// lipidName matches lipid residue codes inside a bilayer composition string,
// e.g. POPC, DOPE, CHOL.
var lipidName = regexp.MustCompile(`\w[A-Z0-9]{2,}`)

// ExtractLipids pulls lipid names out of a bilayer composition string,
// deduplicated in order of first appearance.
func ExtractLipids(bilayer string) []string {
	matches := lipidName.FindAllString(bilayer, -1)
	seen := make(map[string]bool, len(matches))
	var lipids []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		lipids = append(lipids, m)
	}
	return lipids
}

// LipidList resolves the lipids to analyze: the explicit list when set,
// otherwise the names extracted from the bilayer string.
func (c *Config) LipidList() []string {
	if len(c.Lipids) > 0 {
		return c.Lipids
	}
	return ExtractLipids(c.Bilayer)
}
