package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"apisect/internal/config"
	"apisect/internal/diag"
	"apisect/internal/diagfmt"
	"apisect/internal/emitplan"
	"apisect/internal/intersect"
	"apisect/internal/metadata"
	"apisect/internal/model"
	"apisect/internal/observ"
	"apisect/internal/trace"
)

var intersectCmd = &cobra.Command{
	Use:   "intersect [flags] [main.json reference.json...]",
	Short: "Compute the API surface shared by every variant",
	Long: `Compute the API surface shared by the main model and every reference model
and write the emit plan. Inputs come from apisect.toml (searched upward from the
working directory) unless given as arguments; flags override the manifest.`,
	RunE: runIntersect,
}

func init() {
	f := intersectCmd.Flags()
	f.String("config", "", "manifest to use instead of searching for "+config.FileName)
	f.StringSlice("exclude", nil, "model whose types are removed from the output")
	f.StringSlice("dependency", nil, "model used to resolve references (first is the core library)")
	f.StringP("output", "o", "", "emit plan destination (- for stdout)")
	f.String("format", "", "emit plan format (json|msgpack)")
	f.Int("jobs", 0, "max parallel model loads (0=auto)")
	f.Bool("no-cache", false, "do not use the decoded model cache")
	f.Bool("lenient", false, "degrade unresolvable references to warnings")
	f.Bool("keep-internal-constructors", false, "keep internal constructors instead of synthesizing stubs")
	f.Bool("keep-interop-attributes", false, "keep interop attributes")
	f.Bool("strip-serializable", false, "always clear the serializable marker")
	f.StringSlice("blacklist", nil, "type identity to exclude")
	f.StringSlice("whitelist", nil, "type identity to keep regardless of visibility")
	f.String("diagnostics", "pretty", "diagnostics format (pretty|json|none)")
	f.String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	f.Bool("with-notes", false, "include diagnostic notes")
	f.Bool("warnings-as-errors", false, "fail when any warning is reported")
}

// intersectFlags holds the command-local flags that are not manifest keys.
type intersectFlags struct {
	diagnostics      string
	minSeverity      diag.Severity
	withNotes        bool
	warningsAsErrors bool
}

func runIntersect(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(cmd)

	stopProfiles, err := startProfiles(cmd)
	if err != nil {
		return err
	}
	defer stopProfiles()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	local, err := readIntersectFlags(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := metadata.ParseFormat(cfg.Output.Format)
	if err != nil {
		return &config.Error{Path: cfg.Path, Problems: []config.Problem{{Code: diag.CfgInvalidValue, Field: "output.format", Msg: err.Error()}}}
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readProgressMode(uiFlag)
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	dedup := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	reporter := &syncReporter{next: dedup}
	for _, id := range cfg.Conflicts() {
		diag.ReportWarning(reporter, diag.CfgConflictingSet, diag.About(id),
			"listed in both blacklist and whitelist; the whitelist wins").Emit()
	}

	ctx := cmd.Context()
	timer := observ.NewTimer()
	in, err := loadInputs(ctx, cfg, timer, reporter)
	if err != nil {
		reportLoadFailure(reporter, err)
		_ = writeDiagnostics(cmd, bag, nil, local)
		return err
	}

	opts := cfg.EngineOptions()
	title := fmt.Sprintf("intersect %s (%d variants)", in.Variants[0].Name, len(in.Variants))
	var res *intersect.Result
	if showProgress(mode, quiet, os.Stderr) {
		res, err = runIntersectWithUI(ctx, title, in, opts, reporter)
	} else {
		res, err = intersect.Run(ctx, in, opts, reporter)
	}

	names := variantNames(in.Variants)
	if err != nil {
		_ = writeDiagnostics(cmd, bag, names, local)
		return err
	}

	plan := emitplan.Build(res, in.Variants)
	if err := emitplan.WriteFile(cfg.Output.Path, plan, format); err != nil {
		return fmt.Errorf("write emit plan: %w", err)
	}

	if err := writeDiagnostics(cmd, bag, names, local); err != nil {
		return err
	}
	if n := dedup.Suppressed(); n > 0 && !quiet && local.diagnostics != "none" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d repeated diagnostics folded\n", n)
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !quiet && cfg.Output.Path != "" && cfg.Output.Path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d types to %s\n", len(plan.Types), cfg.Output.Path)
	}
	if bag.HasErrors() {
		return &exitError{code: exitFailure, err: errors.New("errors were reported")}
	}
	if local.warningsAsErrors && bag.HasWarnings() {
		return &exitError{code: exitFailure, err: errors.New("warnings reported with --warnings-as-errors")}
	}
	return nil
}

// loadConfig reads the manifest named by --config, the one found upward
// from the working directory, or the defaults, and applies flag overrides.
// Positional arguments replace the manifest's main and reference models.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, _, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Inputs.Main = args[0]
		cfg.Inputs.References = append([]string(nil), args[1:]...)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over the manifest values. List
// flags extend the manifest lists.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	str := func(name string, dst *string) {
		if err == nil && f.Changed(name) {
			*dst, err = f.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && f.Changed(name) {
			*dst, err = f.GetBool(name)
		}
	}
	list := func(name string, dst *[]string) {
		if err == nil && f.Changed(name) {
			var vals []string
			vals, err = f.GetStringSlice(name)
			*dst = append(*dst, vals...)
		}
	}

	list("exclude", &cfg.Inputs.Exclude)
	list("dependency", &cfg.Inputs.Dependencies)
	str("output", &cfg.Output.Path)
	str("format", &cfg.Output.Format)
	boolean("lenient", &cfg.Options.Lenient)
	boolean("keep-internal-constructors", &cfg.Options.KeepInternalConstructors)
	boolean("keep-interop-attributes", &cfg.Options.KeepInteropAttributes)
	boolean("strip-serializable", &cfg.Options.StripSerializable)
	list("blacklist", &cfg.Lists.Blacklist)
	list("whitelist", &cfg.Lists.Whitelist)
	if err == nil && f.Changed("jobs") {
		cfg.Load.Jobs, err = f.GetInt("jobs")
	}
	if err == nil && f.Changed("no-cache") {
		var off bool
		off, err = f.GetBool("no-cache")
		cfg.Load.Cache = cfg.Load.Cache && !off
	}
	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	return nil
}

func readIntersectFlags(cmd *cobra.Command) (intersectFlags, error) {
	var out intersectFlags
	var err error
	if out.diagnostics, err = cmd.Flags().GetString("diagnostics"); err != nil {
		return out, fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	switch out.diagnostics {
	case "pretty", "json", "none":
	default:
		return out, fmt.Errorf("unknown diagnostics format %q (expected pretty|json|none)", out.diagnostics)
	}
	sevStr, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return out, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	sev, ok := diag.ParseSeverity(sevStr)
	if !ok {
		return out, fmt.Errorf("unknown severity %q (expected info|warning|error)", sevStr)
	}
	out.minSeverity = sev
	if out.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return out, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if out.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return out, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	return out, nil
}

// loadInputs decodes every model the manifest names and wires the universe
// that resolves references between them.
func loadInputs(ctx context.Context, cfg *config.Config, timer *observ.Timer, reporter diag.Reporter) (intersect.Input, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "load", trace.ParentSpan(ctx))
	defer span.End("")

	loader := &metadata.Loader{
		OnCacheError: func(path string, err error) {
			diag.ReportWarning(reporter, diag.IOCacheFailure, diag.About(path), err.Error()).Emit()
		},
	}
	// the same model may be listed as a variant and as a dependency
	if memo, err := metadata.NewMemo(64); err == nil {
		loader.Memo = memo
	}
	if cfg.Load.Cache {
		dir := cfg.Load.CacheDir
		if dir == "" {
			if d, err := metadata.DefaultCacheDir("apisect"); err == nil {
				dir = d
			}
		}
		if dir != "" {
			cache, err := metadata.OpenCache(dir)
			if err != nil {
				diag.ReportWarning(reporter, diag.IOCacheFailure, diag.About(dir), err.Error()).Emit()
			} else {
				loader.Cache = cache
			}
		}
	}

	idx := timer.Begin("load")
	paths := cfg.Variants()
	nVariants := len(paths)
	paths = append(paths, cfg.Inputs.Exclude...)
	paths = append(paths, cfg.Inputs.Dependencies...)
	all, err := loader.LoadAll(ctx, paths, cfg.Load.Jobs)
	timer.End(idx, fmt.Sprintf("%d models", len(paths)))
	if err != nil {
		return intersect.Input{}, err
	}

	nExcluded := len(cfg.Inputs.Exclude)
	deps := all[nVariants+nExcluded:]
	return intersect.Input{
		Variants:   all[:nVariants],
		Exclusions: all[nVariants : nVariants+nExcluded],
		Resolver:   model.NewUniverse(deps...),
		Timer:      timer,
	}, nil
}

func reportLoadFailure(reporter diag.Reporter, err error) {
	var fmtErr *metadata.FormatError
	if errors.As(err, &fmtErr) {
		diag.ReportError(reporter, diag.IOBadModel, diag.About(fmtErr.Path), fmtErr.Err.Error()).Emit()
		return
	}
	diag.ReportError(reporter, diag.IOLoadFailed, diag.About("inputs"), err.Error()).Emit()
}

func variantNames(variants []*model.Assembly) []string {
	out := make([]string, len(variants))
	for i, a := range variants {
		if a == nil {
			continue
		}
		out[i] = strings.TrimSpace(a.Name + " " + a.Version)
	}
	return out
}

func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, names []string, local intersectFlags) error {
	if local.diagnostics == "none" || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	out := cmd.ErrOrStderr()
	switch local.diagnostics {
	case "json":
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{
			IncludeNotes: local.withNotes,
			MinSeverity:  local.minSeverity,
			Variants:     names,
		})
	default:
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		return diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
			Color:       color,
			ShowNotes:   local.withNotes,
			MinSeverity: local.minSeverity,
			Variants:    names,
			Summary:     true,
		})
	}
}

// syncReporter serializes reports from the parallel loader.
type syncReporter struct {
	mu   sync.Mutex
	next diag.Reporter
}

func (r *syncReporter) Report(code diag.Code, sev diag.Severity, primary diag.Subject, msg string, notes []diag.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next.Report(code, sev, primary, msg, notes)
}
