// Package main implements the cavvy CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ywhdzrb/Cavvy-sub000/internal/backend/llvm"
	"github.com/ywhdzrb/Cavvy-sub000/internal/version"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("failed")

// newRootCmd assembles the command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "cavvy",
		Short:             "Cavvy LLVM IR generator",
		Long:              "cavvy turns checked program documents into textual LLVM IR modules.",
		Version:           version.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: applyColorFlag,
	}
	root.AddCommand(newEmitCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().Int("trace-ring", 0, "keep the last N trace events and print them on failure")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to the file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to the file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to the file")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			reportError(os.Stderr, "", err)
		}
		os.Exit(1)
	}
}

// applyColorFlag resolves --color once for every command.
func applyColorFlag(cmd *cobra.Command, _ []string) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout) || !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	nameLabel  = color.New(color.Bold)
)

// reportError prints one failure. Generation errors get their own label so
// they stand apart from I/O and document problems.
func reportError(w io.Writer, file string, err error) {
	label := "error:"
	var ge *llvm.Error
	if errors.As(err, &ge) {
		label = "codegen error:"
	}
	prefix := ""
	if file != "" {
		prefix = nameLabel.Sprint(file) + ": "
	}
	fmt.Fprintf(w, "%s%s %s\n", prefix, errorLabel.Sprint(label), err)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
