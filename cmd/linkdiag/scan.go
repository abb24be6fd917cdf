package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"linkdiag/internal/config"
	"linkdiag/internal/diag"
	"linkdiag/internal/diagfmt"
	"linkdiag/internal/driver"
	"linkdiag/internal/source"
	"linkdiag/internal/trace"
	"linkdiag/internal/version"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [log|directory|-]...",
	Short: "Classify linker diagnostics in build logs",
	Long: `Scan reads build logs (files, directories of logs, or - for standard input)
and reports every recognized linker diagnostic. With no arguments it reads
standard input when it is not a terminal and the current directory otherwise.
The exit status is 1 when any error-level diagnostic is reported.`,
	RunE: runScan,
}

// init registers the flags of the scan command. Flags left unset fall back
// to linkdiag.toml and then to built-in defaults.
func init() {
	scanCmd.Flags().String("format", "pretty", "output format ("+strings.Join(config.Formats, "|")+")")
	scanCmd.Flags().String("parser", "", "parser id (see `linkdiag parsers`)")
	scanCmd.Flags().String("encoding", "auto", "log encoding (auto|utf-8|utf-16le|utf-16be|latin1|windows-1252)")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	scanCmd.Flags().String("min-severity", "low", "drop diagnostics below this severity (low|normal|error)")
	scanCmd.Flags().Bool("no-warnings", false, "report errors only")
	scanCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	scanCmd.Flags().Bool("no-dedup", false, "keep repeated diagnostics")
	scanCmd.Flags().Bool("sort", false, "group diagnostics of each log by severity")
	scanCmd.Flags().Bool("disk-cache", false, "cache classification results on disk")
	scanCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	scanCmd.Flags().Bool("fullpath", false, "emit absolute log paths in output")
	scanCmd.Flags().String("path-mode", "auto", "log path display (auto|absolute|relative|basename)")
	scanCmd.Flags().StringSlice("ext", nil, "file extensions picked up in directories (default .log,.txt,.out)")
	scanCmd.Flags().Int("width", 0, "truncate pretty output to this many columns (0 = no limit)")
	scanCmd.MarkFlagsMutuallyExclusive("no-warnings", "warnings-as-errors")
}

// scanSettings is the merged view of flags and linkdiag.toml.
type scanSettings struct {
	format   string
	color    string
	pathMode diagfmt.PathMode
	width    int
	maxDiags int
	quiet    bool
	timings  bool
	ui       uiMode
	opts     driver.ScanOptions
}

func runScan(cmd *cobra.Command, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := readScanSettings(cmd, cfg)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		if isTerminal(os.Stdin) {
			paths = []string{"."}
		} else {
			paths = []string{driver.StdinPath}
		}
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	trace.Point(tracer, trace.ScopeDriver, "config", configLabel(cfg), 0)

	var result *driver.ScanResult
	if shouldUseTUI(s.ui, manyLogs(paths)) && !s.quiet {
		result, err = runScanWithUI(ctx, "linkdiag scan", paths, s.opts)
	} else {
		result, err = driver.Scan(ctx, paths, s.opts)
	}
	if err != nil {
		return err
	}

	useColor, err := readColorMode(s.color)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := render(out, result, s, useColor); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if s.timings && result.Timing != nil {
		fmt.Fprint(cmd.ErrOrStderr(), result.Timing.Summary())
	}

	if result.HasErrors() {
		return exitCodeError{code: 1}
	}
	return nil
}

func render(out io.Writer, result *driver.ScanResult, s scanSettings, useColor bool) error {
	switch s.format {
	case "pretty":
		return diagfmt.Pretty(out, result.Bag, result.Logs, diagfmt.PrettyOpts{
			Color:       useColor,
			PathMode:    s.pathMode,
			Width:       s.width,
			Max:         s.maxDiags,
			ShowSummary: !s.quiet,
		})
	case "json":
		return diagfmt.JSON(out, result.Bag, result.Logs, diagfmt.JSONOpts{
			PathMode:      s.pathMode,
			Max:           s.maxDiags,
			IncludeOrigin: true,
		})
	case "sarif":
		return diagfmt.Sarif(out, result.Bag, result.Logs, diagfmt.SarifRunMeta{
			ToolName:       "linkdiag",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case "short":
		return diagfmt.Short(out, result.Bag, s.maxDiags)
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
}

func readScanSettings(cmd *cobra.Command, cfg config.Config) (scanSettings, error) {
	var s scanSettings
	flags := cmd.Flags()

	format, err := stringSetting(cmd, "format", cfg.Output.Format)
	if err != nil {
		return s, err
	}
	s.format = strings.ToLower(format)
	if !slices.Contains(config.Formats, s.format) {
		return s, fmt.Errorf("unsupported format %q (expected %s)", format, strings.Join(config.Formats, "|"))
	}

	if s.color, err = stringSetting(cmd, "color", cfg.Output.Color); err != nil {
		return s, err
	}

	parser, err := stringSetting(cmd, "parser", cfg.Scan.Parser)
	if err != nil {
		return s, err
	}
	s.opts.Parser = parser

	encName, err := stringSetting(cmd, "encoding", cfg.Scan.Encoding)
	if err != nil {
		return s, err
	}
	if s.opts.Encoding, err = source.ParseEncoding(encName); err != nil {
		return s, err
	}

	if s.opts.Jobs, err = intSetting(cmd, "jobs", cfg.Scan.Jobs); err != nil {
		return s, err
	}

	sevName, err := stringSetting(cmd, "min-severity", cfg.Scan.MinSeverity)
	if err != nil {
		return s, err
	}
	if s.opts.MinSeverity, err = diag.ParseSeverity(sevName); err != nil {
		return s, err
	}

	noWarnings, err := flags.GetBool("no-warnings")
	if err != nil {
		return s, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if noWarnings {
		s.opts.MinSeverity = diag.SevError
	}

	if s.opts.WarningsAsErrors, err = boolSetting(cmd, "warnings-as-errors", cfg.Scan.WarningsAsErrors); err != nil {
		return s, err
	}
	if noWarnings && s.opts.WarningsAsErrors {
		if cmd.Flags().Changed("warnings-as-errors") {
			return s, fmt.Errorf("no-warnings and warnings-as-errors cannot be used together")
		}
		// the flag wins over warnings_as_errors from the config file
		s.opts.WarningsAsErrors = false
	}

	noDedup, err := flags.GetBool("no-dedup")
	if err != nil {
		return s, fmt.Errorf("failed to get no-dedup flag: %w", err)
	}
	s.opts.Dedup = cfg.Scan.Dedup && !noDedup

	if s.opts.Sort, err = boolSetting(cmd, "sort", cfg.Scan.Sort); err != nil {
		return s, err
	}
	if s.opts.EnableDiskCache, err = boolSetting(cmd, "disk-cache", cfg.Scan.DiskCache); err != nil {
		return s, err
	}

	if flags.Changed("ext") {
		if s.opts.Extensions, err = flags.GetStringSlice("ext"); err != nil {
			return s, fmt.Errorf("failed to get ext flag: %w", err)
		}
	} else {
		s.opts.Extensions = cfg.Scan.Extensions
	}

	if s.maxDiags, err = intSetting(cmd, "max-diagnostics", cfg.Output.MaxDiagnostics); err != nil {
		return s, err
	}
	if s.width, err = intSetting(cmd, "width", cfg.Output.Width); err != nil {
		return s, err
	}

	modeName, err := stringSetting(cmd, "path-mode", cfg.Output.PathMode)
	if err != nil {
		return s, err
	}
	if s.pathMode, err = diagfmt.ParsePathMode(modeName); err != nil {
		return s, err
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return s, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}

	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return s, err
	}

	if s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	s.opts.EnableTimings = s.timings

	return s, nil
}

// manyLogs guesses, before resolving, whether a scan covers several logs.
func manyLogs(paths []string) bool {
	if len(paths) > 1 {
		return true
	}
	for _, p := range paths {
		if p == driver.StdinPath {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func configLabel(cfg config.Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return cfg.Path
}
