package cli

import (
	"fmt"
	"os"
	"tickq/src/config"
	"tickq/src/logger"

	"github.com/spf13/cobra"
)

var (
	flagEnvFile string
	flagDebug   bool

	cfg *config.Config
	log *logger.Logger
)

// NewRootCmd creates the root cobra command for the tickq CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tickq",
		Short: "Cooperative task scheduler",
		Long:  "tickq runs jobs one step per tick, letting every job take its turn.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadFromEnv(flagEnvFile)
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.Debug = true
			}

			log = logger.NewWithWriter("tickq", cmd.ErrOrStderr())
			log.SetDebug(cfg.Debug)
			logger.SetGlobal(log)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagEnvFile, "env", ".env", "Environment file loaded before reading TICKQ_* variables")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging (or TICKQ_DEBUG env)")

	root.AddCommand(
		newServerCmd(),
		newClientCmd(),
		newDemoCmd(),
	)

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
