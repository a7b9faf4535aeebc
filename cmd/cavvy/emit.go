package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ywhdzrb/Cavvy-sub000/internal/backend/llvm"
	"github.com/ywhdzrb/Cavvy-sub000/internal/buildpipeline"
	"github.com/ywhdzrb/Cavvy-sub000/internal/driver"
	"github.com/ywhdzrb/Cavvy-sub000/internal/observ"
	"github.com/ywhdzrb/Cavvy-sub000/internal/project"
)

const noInputsMessage = "no input documents: pass .json or .msgpack files, or list them in [build].inputs of cavvy.toml"

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [flags] [inputs...]",
		Short: "Generate LLVM IR for program documents",
		Long: `Generate one textual LLVM IR module per program document.
Inputs default to [build].inputs of the nearest cavvy.toml; flags override
the manifest.`,
		RunE: emitExecution,
	}
	cmd.Flags().StringP("out-dir", "o", project.DefaultOutDir, "directory for .ll files")
	cmd.Flags().String("target", llvm.DefaultTriple, "target triple")
	cmd.Flags().String("entry-class", "", "class whose static main() is the entry point")
	cmd.Flags().Int("console-codepage", 0, "set the Windows console output code page at startup (0 disables)")
	cmd.Flags().IntP("jobs", "j", 0, "documents generated in parallel (0 = number of CPUs)")
	cmd.Flags().Bool("no-cache", false, "bypass the IR cache")
	cmd.Flags().Bool("no-normalize", false, "keep string literals as written instead of NFC")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("stdout", false, "print the IR of a single input instead of writing a file")
	return cmd
}

// emitSettings is the merged view of flags and manifest.
type emitSettings struct {
	inputs    []string
	outDir    string
	baseDir   string
	options   llvm.Options
	normalize bool
	cache     bool
	jobs      int
	ui        uiMode
	stdout    bool
	trace     project.TraceConfig
}

// resolveEmitSettings merges flags over manifest values. manifest may be nil.
func resolveEmitSettings(cmd *cobra.Command, manifest *project.Manifest, args []string) (emitSettings, error) {
	flags := cmd.Flags()
	var s emitSettings
	var err error
	if s.options.TargetTriple, err = flags.GetString("target"); err != nil {
		return s, err
	}
	if s.options.EntryClass, err = flags.GetString("entry-class"); err != nil {
		return s, err
	}
	if s.options.ConsoleCodePage, err = flags.GetInt("console-codepage"); err != nil {
		return s, err
	}
	if s.outDir, err = flags.GetString("out-dir"); err != nil {
		return s, err
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, err
	}
	if s.stdout, err = flags.GetBool("stdout"); err != nil {
		return s, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return s, err
	}
	noNormalize, err := flags.GetBool("no-normalize")
	if err != nil {
		return s, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}

	s.inputs = args
	s.cache, s.normalize = true, true
	if manifest != nil {
		build := manifest.Config.Build
		s.baseDir = manifest.Root
		if len(s.inputs) == 0 {
			s.inputs = build.Inputs
		}
		if !flags.Changed("out-dir") {
			s.outDir = build.OutDir
		}
		if !flags.Changed("target") && build.Target != "" {
			s.options.TargetTriple = build.Target
		}
		if !flags.Changed("entry-class") {
			s.options.EntryClass = build.EntryClass
		}
		if !flags.Changed("console-codepage") {
			s.options.ConsoleCodePage = build.ConsoleCodePage
		}
		s.cache = build.Cache
		s.normalize = build.NormalizeStrings
		s.trace = manifest.Config.Trace
	}
	s.cache = s.cache && !noCache
	s.normalize = s.normalize && !noNormalize

	if len(s.inputs) == 0 {
		return s, errors.New(noInputsMessage)
	}
	if s.stdout && len(s.inputs) > 1 {
		return s, fmt.Errorf("--stdout takes a single input, got %d", len(s.inputs))
	}
	if cp := s.options.ConsoleCodePage; cp < 0 || cp > 65535 {
		return s, fmt.Errorf("--console-codepage %d out of range", cp)
	}
	if strings.TrimSpace(s.options.TargetTriple) == "" {
		return s, errors.New("--target must not be empty")
	}
	if s.baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			s.baseDir = cwd
		}
	}
	return s, nil
}

func emitExecution(cmd *cobra.Command, args []string) error {
	manifest, _, err := project.Load(".")
	if err != nil {
		return err
	}
	settings, err := resolveEmitSettings(cmd, manifest, args)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	session, cleanup, err := setupTracing(cmd, settings.trace)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	req := buildpipeline.EmitRequest{
		Inputs:  settings.inputs,
		OutDir:  settings.outDir,
		BaseDir: settings.baseDir,
		Options: settings.options,
		Load:    driver.LoadOptions{NormalizeStrings: settings.normalize},
		Jobs:    settings.jobs,
	}
	if settings.cache {
		cache, cacheErr := driver.OpenDiskCache("cavvy")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: IR cache disabled: %v\n", cacheErr)
		} else {
			req.Cache = cache
		}
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		req.Timer = timer
	}
	if settings.stdout {
		req.Stdout = cmd.OutOrStdout()
	}

	var res buildpipeline.EmitResult
	useTUI := shouldUseTUI(settings.ui) && !settings.stdout && !quiet
	if useTUI {
		files := buildpipeline.DisplayNames(settings.inputs, settings.baseDir)
		res, err = runEmitWithUI(cmd.Context(), "cavvy emit", files, &req)
	} else {
		res, err = buildpipeline.Emit(cmd.Context(), &req)
	}

	if showTimings {
		if terr := printStageTimings(cmd.ErrOrStderr(), res, timer); terr != nil {
			return terr
		}
	}
	if err != nil {
		if len(res.Outputs) == 0 || res.Failed() == 0 {
			return err
		}
		for _, o := range res.Outputs {
			if o.Err != nil {
				reportError(cmd.ErrOrStderr(), o.Display, o.Err)
			}
		}
		session.dumpRing(cmd)
		return errReported
	}
	if quiet || settings.stdout {
		return nil
	}
	for _, o := range res.Outputs {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", formatPathForOutput(settings.baseDir, o.Path)); err != nil {
			return err
		}
	}
	return nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
