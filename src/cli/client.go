package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"tickq/src/client"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newClientCmd() *cobra.Command {
	var (
		host    string
		port    int
		jobs    int
		steps   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Send jobs to a server and report how they finished",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if jobs < 1 {
				return errors.Errorf("--jobs must be at least 1, got %d", jobs)
			}

			// Job i has i times the base number of steps
			list := make([]client.Job, jobs)
			for i := range list {
				list[i] = client.Job{
					Label: fmt.Sprintf("job-%d", i+1),
					Steps: steps * (i + 1),
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c := client.NewClient(cfg.Host, cfg.Port, log)
			results, err := c.Run(ctx, list)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tSTEPS\tORDER\tELAPSED")
			for _, res := range results {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", res.Label, res.Frames, res.Order, res.Elapsed.Round(time.Microsecond))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "Server address (or TICKQ_HOST env)")
	cmd.Flags().IntVar(&port, "port", 8000, "Server UDP port (or TICKQ_PORT env)")
	cmd.Flags().IntVar(&jobs, "jobs", 4, "Number of concurrent jobs")
	cmd.Flags().IntVar(&steps, "steps", 10, "Steps of the first job; job n has n times as many")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Give up after this long")
	return cmd
}
