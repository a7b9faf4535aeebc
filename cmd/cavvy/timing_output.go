package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ywhdzrb/Cavvy-sub000/internal/buildpipeline"
	"github.com/ywhdzrb/Cavvy-sub000/internal/observ"
)

// printStageTimings writes one line per document, then the phase table.
func printStageTimings(out io.Writer, res buildpipeline.EmitResult, timer *observ.Timer) error {
	for _, o := range res.Outputs {
		line := fmt.Sprintf("%s: load %.1f ms", o.Display, toMillis(o.Timings.Duration(buildpipeline.StageLoad)))
		if o.Timings.Has(buildpipeline.StageGenerate) {
			line += fmt.Sprintf(", generate %.1f ms", toMillis(o.Timings.Duration(buildpipeline.StageGenerate)))
			if o.Cached {
				line += " (cached)"
			}
		}
		if o.Timings.Has(buildpipeline.StageWrite) {
			line += fmt.Sprintf(", write %.1f ms", toMillis(o.Timings.Duration(buildpipeline.StageWrite)))
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	if timer == nil {
		return nil
	}
	_, err := io.WriteString(out, timer.Summary())
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
