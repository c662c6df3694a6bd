// Package config reads the apisect.toml manifest describing one
// intersection run: which model files to load, the engine switches and the
// identity lists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"apisect/internal/diag"
)

// FileName is the manifest searched for upward from the working directory.
const FileName = "apisect.toml"

type Config struct {
	Inputs  Inputs  `toml:"inputs"`
	Options Options `toml:"options"`
	Lists   Lists   `toml:"lists"`
	Output  Output  `toml:"output"`
	Load    Load    `toml:"load"`

	// Path is the manifest file, empty when built from flags only.
	Path string `toml:"-"`
}

// Inputs name model files. Relative paths are resolved against the
// manifest's directory.
type Inputs struct {
	Main       string   `toml:"main"`
	References []string `toml:"references"`
	Exclude    []string `toml:"exclude"`
	// Dependencies resolve references that no variant defines; the first
	// one is treated as the target core library.
	Dependencies []string `toml:"dependencies"`
}

type Options struct {
	KeepInternalConstructors bool   `toml:"keep_internal_constructors"`
	KeepInteropAttributes    bool   `toml:"keep_interop_attributes"`
	StripSerializable        bool   `toml:"strip_serializable"`
	RedirectInteropMarker    bool   `toml:"redirect_interop_marker"`
	InteropRedirect          string `toml:"interop_redirect"`
	Lenient                  bool   `toml:"lenient"`
}

type Lists struct {
	Blacklist          []string `toml:"blacklist"`
	Whitelist          []string `toml:"whitelist"`
	MemberRemovalAllow []string `toml:"member_removal_allow"`
	ExplicitTypeAllow  []string `toml:"explicit_type_allow"`
	InteropAttributes  []string `toml:"interop_attributes"`
}

// Output selects where the emit plan goes; an empty path means stdout.
type Output struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

type Load struct {
	Jobs     int    `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

// Default returns the configuration used when the manifest is silent.
func Default() Config {
	return Config{
		Output: Output{Format: "json"},
		Load:   Load{Cache: true},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest manifest. ok is false when there is
// none, in which case the defaults are returned.
func Discover(startDir string) (cfg *Config, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		def := Default()
		return &def, false, nil
	}
	cfg, err = LoadFile(path)
	return cfg, true, err
}

// LoadFile decodes path over the defaults. Unknown keys are an error so a
// misspelled switch does not silently do nothing.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &Error{Path: path, Problems: []Problem{{
			Code:  diag.CfgInvalidValue,
			Field: keys[0],
			Msg:   "unknown key(s): " + strings.Join(keys, ", "),
		}}}
	}
	cfg.Path = path
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

func (c *Config) resolvePaths(root string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, filepath.FromSlash(p))
	}
	all := func(ps []string) {
		for i := range ps {
			ps[i] = abs(ps[i])
		}
	}
	c.Inputs.Main = abs(c.Inputs.Main)
	all(c.Inputs.References)
	all(c.Inputs.Exclude)
	all(c.Inputs.Dependencies)
	c.Output.Path = abs(c.Output.Path)
	c.Load.CacheDir = abs(c.Load.CacheDir)
}

// Variants lists the main model followed by the references.
func (c *Config) Variants() []string {
	out := make([]string, 0, 1+len(c.Inputs.References))
	out = append(out, c.Inputs.Main)
	return append(out, c.Inputs.References...)
}
