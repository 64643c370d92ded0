package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AbdellahBM/orema-camp/internal/models"
)

type registrationRescorer interface {
	Rescore(ctx context.Context, id string) (*models.ScoreResult, error)
}

func newRescoreCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rescore <registration-id>",
		Short: "Score a registration again and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runRescore(cmd.Context(), a.Registration, args[0], cmd.OutOrStdout())
		},
	}
}

func runRescore(ctx context.Context, r registrationRescorer, id string, w io.Writer) error {
	result, err := r.Rescore(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s scored %d/100\n%s\n", id, result.Score, result.Explanation)
	return nil
}
