package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biztositok/biztositok-go/internal/metrics"
	"github.com/biztositok/biztositok-go/internal/rate"
)

func newBenchCmd(g *globalOptions) *cobra.Command {
	var (
		pf          paramFlags
		count       int
		concurrency int
		perSecond   float64
	)

	cmd := &cobra.Command{
		Use:   "bench PATH",
		Short: "Call an API function repeatedly and report latency percentiles",
		Long: `Call the API function at PATH N times and print latency percentiles
(p50, p90, p99, max) together with success, failure and error counts.

Calls run sequentially unless --concurrency is greater than 1. --rate
spaces call starts evenly at the given number of calls per second.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}

			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			params, err := pf.params()
			if err != nil {
				return err
			}
			callOpts, err := pf.callOptions()
			if err != nil {
				return err
			}

			recorder := metrics.NewRecorder()
			pacer := rate.NewPacer(perSecond)
			ctx := callContext(cmd)

			group, gctx := errgroup.WithContext(ctx)
			group.SetLimit(concurrency)
			for i := 0; i < count; i++ {
				if err := pacer.Wait(gctx); err != nil {
					break
				}
				i := i
				group.Go(func() error {
					resp, err := a.client.Invoke(gctx, path, params, callOpts...)
					if err != nil {
						recorder.RecordError()
						a.log.Debug("bench call failed", zap.Int("call", i), zap.Error(err))
						return nil
					}
					recorder.Record(resp.Timing().Total, resp.IsSuccess())
					return nil
				})
			}
			_ = group.Wait()

			fmt.Fprintln(a.out, a.formatter.FormatSummary(path, recorder.Summary()))
			return ctx.Err()
		},
	}

	pf.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of calls")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "Number of calls in flight at once")
	cmd.Flags().Float64VarP(&perSecond, "rate", "r", 0, "Calls started per second (0 means as fast as possible)")

	return cmd
}
