package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"apisect/internal/diag"
)

const manifest = `
[inputs]
main = "models/ios.json"
references = ["models/mac.json", "/abs/tv.json"]
exclude = ["models/internal.json"]

[options]
keep_internal_constructors = true
lenient = true

[lists]
blacklist = ["N.Secret", "N.Both"]
whitelist = ["N.Both"]
member_removal_allow = ["N.IFoo::M"]

[output]
format = "msgpack"
`

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, manifest)
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, ok, err := Discover(sub)
	if err != nil || !ok {
		t.Fatalf("discover: ok=%v err=%v", ok, err)
	}
	if cfg.Inputs.Main != filepath.Join(root, "models", "ios.json") {
		t.Fatalf("main not resolved against the manifest: %s", cfg.Inputs.Main)
	}
	want := []string{filepath.Join(root, "models", "mac.json"), "/abs/tv.json"}
	if !reflect.DeepEqual(cfg.Inputs.References, want) {
		t.Fatalf("unexpected references %v", cfg.Inputs.References)
	}
	if len(cfg.Variants()) != 3 || cfg.Variants()[0] != cfg.Inputs.Main {
		t.Fatalf("main must be variant 0")
	}
	if !cfg.Load.Cache || cfg.Output.Format != "msgpack" {
		t.Fatalf("defaults and overrides not merged: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	// a manifest further up the real tree would be found; only check shape
	if !ok && cfg.Output.Format != "json" {
		t.Fatalf("defaults expected when no manifest exists")
	}
}

func TestUnknownKeysRejected(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[options]\nlenientt = true\n")
	_, err := LoadFile(path)
	var ce *Error
	if !errors.As(err, &ce) || ce.Problems[0].Field != "options.lenientt" {
		t.Fatalf("expected an unknown key error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Load.Jobs = -1
	cfg.Options.RedirectInteropMarker = true
	err := cfg.Validate()
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %v", err)
	}
	fields := make([]string, 0, len(ce.Problems))
	missing := 0
	for _, p := range ce.Problems {
		fields = append(fields, p.Field)
		if p.Code == diag.CfgMissingInput {
			missing++
		}
	}
	want := []string{"inputs.main", "inputs.references", "output.format", "load.jobs", "options.interop_redirect"}
	if !reflect.DeepEqual(fields, want) || missing != 2 {
		t.Fatalf("unexpected problems %+v", ce.Problems)
	}
	if !strings.Contains(err.Error(), "inputs.main: no main model given") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestConflictsAndEngineOptions(t *testing.T) {
	path := writeManifest(t, t.TempDir(), manifest)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Conflicts(); !reflect.DeepEqual(got, []string{"N.Both"}) {
		t.Fatalf("unexpected conflicts %v", got)
	}
	opts := cfg.EngineOptions()
	if !opts.KeepInternalConstructors || !opts.Lenient || len(opts.Blacklist) != 2 || opts.MemberRemovalAllow[0] != "N.IFoo::M" {
		t.Fatalf("options not mapped: %+v", opts)
	}
}

func TestTemplateDecodes(t *testing.T) {
	var cfg Config
	meta, err := toml.Decode(Template, &cfg)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if len(meta.Undecoded()) != 0 {
		t.Fatalf("template has unknown keys: %v", meta.Undecoded())
	}
	if cfg.Inputs.Main == "" || !cfg.Load.Cache {
		t.Fatalf("unexpected template values %+v", cfg)
	}
}
