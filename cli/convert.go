package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"webpbatch/batch"
	"webpbatch/codec"
	"webpbatch/config"

	"github.com/spf13/cobra"
)

const timeRounding = 10 * time.Millisecond

func newConvertCommand(stdout io.Writer) *cobra.Command {
	var (
		quality  int
		codecCmd string
	)

	cmd := &cobra.Command{
		Use:   "convert SOURCE_DIR DEST_DIR",
		Short: "Convert every PNG under SOURCE_DIR into DEST_DIR, mirroring the tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("quality") {
				cfg.Quality = quality
			}
			if cmd.Flags().Changed("codec-cmd") {
				cfg.CodecCmd = codecCmd
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			conv, err := codec.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			obs := &consoleObserver{out: stdout}
			sum, err := batch.NewRunner(conv).Run(ctx, args[0], args[1], cfg.Quality, obs)
			if err != nil {
				return err
			}
			if sum.Canceled {
				return fmt.Errorf("interrupted after %d of %d files", sum.Succeeded+sum.Failed, sum.Total)
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&quality, "quality", "q", batch.DefaultQuality, "WebP quality (0-100)")
	cmd.Flags().StringVar(&codecCmd, "codec-cmd", "", "external conversion command template, e.g. \"cwebp -q ${QUALITY} ${INPUT} -o ${OUTPUT}\"")
	return cmd
}

// consoleObserver renders engine events as terminal lines: one line per
// file as it resolves, then the closing tally. It mirrors what the status
// log of a GUI front-end would show.
type consoleObserver struct {
	out       io.Writer
	completed int
	total     int
}

func (o *consoleObserver) OnProgress(completed, total int, current batch.Task) {
	o.completed = completed
	o.total = total
}

func (o *consoleObserver) OnResult(res batch.Result) {
	if res.Outcome == batch.OutcomeSucceeded {
		fmt.Fprintf(o.out, "[%d/%d] ✓ %s -> %s\n", o.completed, o.total, res.Task.Source, res.Task.Dest)
		return
	}
	fmt.Fprintf(o.out, "[%d/%d] ✗ %s: %s\n", o.completed, o.total, res.Task.Source, res.Reason)
}

func (o *consoleObserver) OnComplete(sum batch.Summary) {
	if sum.Total == 0 {
		fmt.Fprintln(o.out, "No PNG files found.")
		return
	}
	fmt.Fprintf(o.out, "Done: %d converted, %d failed (%d total) in %s\n",
		sum.Succeeded, sum.Failed, sum.Total, sum.Duration.Round(timeRounding))
}
