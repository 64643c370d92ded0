// Package commands implements the campctl operator CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/app"
	"github.com/AbdellahBM/orema-camp/pkg/config"
	"github.com/AbdellahBM/orema-camp/pkg/logger"
)

type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the campctl command tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:   "campctl",
		Short: "Operator tooling for the OREMA camp registration service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || rt.cfg != nil {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logr, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			rt.cfg, rt.logger = cfg, logr
			return nil
		},
		SilenceErrors:      true,
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}

	root.AddCommand(newMigrateCmd(rt), newExportCmd(rt), newRescoreCmd(rt))
	return root
}

// Execute runs campctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (rt *runtime) build(ctx context.Context) (*app.App, error) {
	return app.Build(ctx, rt.cfg, rt.logger)
}
