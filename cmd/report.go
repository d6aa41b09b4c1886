package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"acmeledger/internal/common"
	"acmeledger/internal/config"
	"acmeledger/internal/models"
	"acmeledger/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	kind   string
	id     string
	from   string
	to     string
	outDir string
}

func newReportCmd(getConfig func() *config.Config) *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a PDF report to a file",
		Long: `Render one of the PDF reports without going through the HTTP API.

Kinds: company, companies, dashboard, dashboards, incoming, outgoing.
company and dashboard need --id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := cmd.Context()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := services.NewReportService(services.ReportConfig{Store: store, Renderer: newRenderer(cfg)})
			report, err := runReport(ctx, svc, opts)
			if err != nil {
				return err
			}

			out := filepath.Join(opts.outDir, report.Filename)
			if err := os.WriteFile(out, report.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info().Str("file", out).Int("pages", report.Pages).Msg("report written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "dashboards", "report kind")
	cmd.Flags().StringVar(&opts.id, "id", "", "company id for single-company reports")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	return cmd
}

func runReport(ctx context.Context, svc services.ReportService, opts reportOptions) (*services.Report, error) {
	r, err := common.ParseDateRange(opts.from, opts.to)
	if err != nil {
		return nil, err
	}

	switch opts.kind {
	case "company", "dashboard":
		if opts.id == "" {
			return nil, fmt.Errorf("--id is required for the %s report", opts.kind)
		}
		if opts.kind == "company" {
			return svc.CompanyReport(ctx, opts.id, r)
		}
		return svc.DashboardReport(ctx, opts.id, r)
	case "companies":
		return svc.AllCompaniesReport(ctx, r)
	case "dashboards":
		return svc.AllDashboardsReport(ctx, r)
	case string(models.InventoryIncoming), string(models.InventoryOutgoing):
		return svc.InventoryReport(ctx, opts.kind, r)
	default:
		return nil, fmt.Errorf("unknown report kind %q", opts.kind)
	}
}
