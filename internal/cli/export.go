package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/export"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the log as CSV or the report as PDF",
	}

	var csvOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the full log as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			all, err := a.store.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			var buf bytes.Buffer
			if err := export.WriteCSV(&buf, all); err != nil {
				return err
			}
			return writeOutput(cmd, csvOut, buf.Bytes(), fmt.Sprintf("%d entries", len(all)))
		},
	}
	csvCmd.Flags().StringVarP(&csvOut, "out", "o", "workout_log.csv", "output file, - for stdout")

	var pdfOut string
	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render the training report as PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			ov, err := a.analyzer.Overview(ctx)
			if err != nil {
				return fmt.Errorf("compute overview: %w", err)
			}
			var buf bytes.Buffer
			if err := export.RenderPDF(&buf, ov); err != nil {
				return err
			}
			if pdfOut == "" {
				pdfOut = fmt.Sprintf("iron_report_%s.pdf", ov.Today.Format(entries.DateLayout))
			}
			return writeOutput(cmd, pdfOut, buf.Bytes(), "report")
		},
	}
	pdfCmd.Flags().StringVarP(&pdfOut, "out", "o", "", "output file, - for stdout (default iron_report_<date>.pdf)")

	cmd.AddCommand(csvCmd, pdfCmd)
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append the rows of a CSV export to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Warnf("close import file: %s", err)
				}
			}()

			parsed, skipped, err := export.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			if len(parsed) == 0 {
				return fmt.Errorf("no entries to import in [%s]", args[0])
			}

			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			imported, err := a.store.AddBatch(ctx, parsed)
			if err != nil {
				return fmt.Errorf("import entries: %w", err)
			}

			scheme.Success.Fprintf(cmd.OutOrStdout(), "imported %d entries", imported)
			if skipped > 0 {
				scheme.Warn.Fprintf(cmd.OutOrStdout(), ", skipped %d bad rows", skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func writeOutput(cmd *cobra.Command, path string, payload []byte, what string) error {
	if path == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(payload))
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write [%s]: %w", path, err)
	}
	scheme.Success.Fprintf(cmd.OutOrStdout(), "%s written to %s\n", what, path)
	return nil
}
