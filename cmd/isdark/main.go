// Command isdark prints whether images are predominantly dark.
//
//	isdark photo.jpg                 → true
//	isdark a.png https://x/b.webp    → a.png	false
//	                                   https://x/b.webp	true
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-imagetone"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		maxSide int
		verbose bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:          "isdark [flags] <path-or-url>...",
		Short:        "Report whether images are predominantly dark",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg := &imagetone.Config{MaxSampleSide: maxSide}
			return run(ctx, cfg, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&maxSide, "max-side", 0, "downsample images whose longer side exceeds this (0 = full resolution)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall time limit")
	return cmd
}

// run classifies every input. One input prints a bare verdict; several print
// "<input>\t<verdict>" lines. Failed inputs are logged and counted.
func run(ctx context.Context, cfg *imagetone.Config, inputs []string, w io.Writer) error {
	failed := 0
	for _, in := range inputs {
		t, err := classifyInput(ctx, cfg, in)
		if err != nil {
			slog.Error("isdark: classify failed", "input", in, "error", err.Error())
			failed++
			continue
		}
		dark := t == imagetone.ToneDark
		if len(inputs) == 1 {
			fmt.Fprintln(w, dark)
		} else {
			fmt.Fprintf(w, "%s\t%t\n", in, dark)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

func classifyInput(ctx context.Context, cfg *imagetone.Config, in string) (imagetone.Tone, error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		t := cfg.ToneOfURL(ctx, in)
		if t == imagetone.ToneUnknown {
			return t, fmt.Errorf("could not fetch or decode %s", in)
		}
		return t, nil
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return imagetone.ToneUnknown, err
	}
	return cfg.ToneOfBytes(ctx, data)
}
