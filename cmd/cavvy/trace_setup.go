package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ywhdzrb/Cavvy-sub000/internal/project"
	"github.com/ywhdzrb/Cavvy-sub000/internal/trace"
)

// traceSession is an open tracer plus its optional in-memory ring.
type traceSession struct {
	tracer trace.Tracer
	ring   *trace.RingTracer
	format trace.Format
}

// setupTracing reads the trace flags, falling back to the manifest's
// [trace] table for flags left unset, and attaches the tracer to the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, fallback project.TraceConfig) (*traceSession, func(), error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring flag: %w", err)
	}
	if !flags.Changed("trace") && fallback.Output != "" {
		output = fallback.Output
	}
	if !flags.Changed("trace-level") && fallback.Level != "" {
		levelStr = fallback.Level
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// A destination without an explicit level traces phases.
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	tracer, ring, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	if format == trace.FormatAuto {
		format = trace.FormatText
	}
	return &traceSession{tracer: tracer, ring: ring, format: format}, cleanup, nil
}

// dumpRing prints the remembered events after a failure.
func (s *traceSession) dumpRing(cmd *cobra.Command) {
	if s == nil || s.ring == nil {
		return
	}
	events := s.ring.Snapshot()
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "last %d trace events:\n", len(events))
	if err := s.ring.Dump(cmd.ErrOrStderr(), s.format); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
