package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AbdellahBM/orema-camp/internal/service"
	"github.com/AbdellahBM/orema-camp/pkg/export"
)

type approvedExporter interface {
	ExportApproved(ctx context.Context, format export.Format) (*service.ExportFile, error)
}

func newExportCmd(rt *runtime) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write approved registrations to a CSV or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.build(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return runExport(cmd.Context(), a.Export, export.Format(format), out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatPDF), "export format (pdf or csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (defaults to the generated filename)")
	return cmd
}

// runExport writes the rendered file to out. A directory target keeps the generated filename.
func runExport(ctx context.Context, exp approvedExporter, format export.Format, out string, w io.Writer) error {
	file, err := exp.ExportApproved(ctx, format)
	if err != nil {
		return err
	}

	target := file.Filename
	if out != "" {
		target = out
		if info, statErr := os.Stat(out); statErr == nil && info.IsDir() {
			target = filepath.Join(out, file.Filename)
		}
	}
	if err := os.WriteFile(target, file.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(w, "exported %d approved registrations to %s\n", file.Count, target)
	return nil
}
