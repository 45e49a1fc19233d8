package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recast/internal/audit"
	"recast/internal/executil"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var reportPath string
	var noCatalog bool

	cmd := &cobra.Command{
		Use:   "audit <directory>",
		Short: "Scan a media library for files worth re-encoding",
		Long: `Audit walks the directory, probes every video file, and flags
unwanted codecs, low resolution, and low bitrate. Results are kept in
the catalog so unchanged files are not re-probed on the next scan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("inspect directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var store *audit.Store
			if !noCatalog {
				store, err = audit.Open(cfg.Paths.CatalogPath)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			scanner := audit.NewScanner(executil.System{}, cfg.Tools.FFprobe, store, logger)
			results, err := scanner.ScanDir(cmd.Context(), dir)
			if err != nil {
				return err
			}

			flagged := audit.Flag(results)
			out := cmd.OutOrStdout()
			if len(flagged) > 0 {
				fmt.Fprintln(out, renderAuditTable(flagged))
			}
			fmt.Fprintf(out, "Scanned %d video files, flagged %d\n", len(results), len(flagged))

			if reportPath != "" {
				if err := writeAuditReport(reportPath, flagged); err != nil {
					return err
				}
				fmt.Fprintf(out, "Report written to %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "o", "", "Write flagged files to a CSV report")
	cmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "Probe every file without touching the catalog")

	cmd.AddCommand(newAuditReportCommand(ctx))
	return cmd
}

func newAuditReportCommand(ctx *commandContext) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the flagged files recorded in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := audit.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			flagged, err := store.ListFlagged(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(flagged) == 0 {
				fmt.Fprintln(out, "No flagged files in the catalog")
				return nil
			}
			fmt.Fprintln(out, renderAuditTable(flagged))
			fmt.Fprintf(out, "%d flagged files\n", len(flagged))

			if reportPath != "" {
				if err := writeAuditReport(reportPath, flagged); err != nil {
					return err
				}
				fmt.Fprintf(out, "Report written to %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "o", "", "Write flagged files to a CSV report")
	return cmd
}

func renderAuditTable(results []audit.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			result.Path,
			result.VideoCodec,
			result.AudioCodec,
			strconv.Itoa(result.Resolution),
			strconv.FormatInt(result.BitrateKbps, 10),
			result.IssueLabels(),
		})
	}
	return renderTable(
		[]string{"File", "Video", "Audio", "Resolution", "Bitrate (kbps)", "Issues"},
		rows,
		4, 5,
	)
}

func writeAuditReport(path string, results []audit.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer file.Close()
	if err := audit.WriteCSV(file, results); err != nil {
		return err
	}
	return file.Close()
}
