package cli

import (
	"fmt"
	"io"
	"tickq/src/metrics"
	"tickq/src/scheduler"
	"tickq/src/work"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		jobs  int
		steps int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a few jobs in process and print every tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 0 || steps < 1 {
				return errors.Errorf("need --jobs >= 0 and --steps >= 1, got %d and %d", jobs, steps)
			}

			collector := metrics.NewCollector(prometheus.NewRegistry())
			sample := runDemo(cmd.OutOrStdout(), jobs, steps, collector)
			fmt.Fprintf(cmd.OutOrStdout(), "jobs: %d  invocations: %d  jain: %.3f\n", sample.Jobs, sample.Invocations, sample.Jain)
			return nil
		},
	}

	cmd.Flags().IntVar(&jobs, "jobs", 3, "Number of repeating jobs")
	cmd.Flags().IntVar(&steps, "steps", 2, "Steps of the first job; job n has n times as many")
	return cmd
}

// runDemo drives one context until it is empty and writes a line per tick
// to w. It schedules jobs repeating closures, one set and one ordered queue.
// The first job schedules a follow-up when it finishes.
func runDemo(w io.Writer, jobs, steps int, observer scheduler.Observer) metrics.Sample {
	ctx := scheduler.NewContext()
	ctx.SetObserver(observer)
	fairness := metrics.NewFairness()

	tick := 0
	trace := func(format string, v ...interface{}) {
		tick++
		fmt.Fprintf(w, "tick %3d  %s\n", tick, fmt.Sprintf(format, v...))
	}

	for i := 1; i <= jobs; i++ {
		name := fmt.Sprintf("job-%d", i)
		total := steps * i
		first := i == 1
		step := 0

		ctx.ScheduleRepeat(func() work.StopCondition {
			step++
			fairness.Record(name)
			trace("%s %d/%d", name, step, total)
			if step < total {
				return work.KeepGoing
			}
			if first {
				ctx.Schedule(func() { trace("%s follow-up", name) })
			}
			return work.Stop
		})
	}

	var set work.Set
	set.Add(func() { trace("set member a") })
	set.Add(func() { trace("set member b") })
	ctx.ScheduleSet(&set)

	var q work.Queue
	q.PushFunc(func() { trace("queue 1/2") })
	q.PushFunc(func() { trace("queue 2/2") })
	ctx.ScheduleQueue(&q)

	ctx.TickUntilEmpty()
	return fairness.Snapshot()
}
