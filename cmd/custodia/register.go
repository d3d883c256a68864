package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"evidex-hq/custodia/pkg/cli"
	"evidex-hq/custodia/pkg/config"
	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/export"
	"evidex-hq/custodia/pkg/exhibit/query"
	"evidex-hq/custodia/pkg/exhibit/register"
	"evidex-hq/custodia/pkg/telemetry/metrics"
)

var registerFlags struct {
	search     string
	deviceType string
	status     string
	limit      int
	offset     int
	sortBy     string
	sortOrder  string
	format     string
	output     string
	pretty     bool
	follow     bool
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Browse and export the evidence register",
	Long: `Browse, search, and export the register of recorded exhibits.

Subcommands:
  list      - List exhibits with optional search and filters
  show      - Show one exhibit in full
  snapshot  - Write a CSV snapshot of the full register

Examples:
  # Everything, newest first
  custodia register list

  # Case-insensitive search over reference, exhibit number, investigator
  custodia register list --search "case-2026"

  # Filter and export
  custodia register list --device-type Smartphone --format csv --output phones.csv`,
}

var registerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exhibits",
	Long: `List exhibits with optional search and filters.

The --search term matches case-insensitively as a substring of the reference
number, exhibit number, or investigator name. --device-type and --status are
exact filters.`,
	RunE: runRegisterList,
}

var registerShowCmd = &cobra.Command{
	Use:   "show <device-id>",
	Short: "Show one exhibit",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegisterShow,
}

var registerSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a CSV snapshot of the full register",
	Long: `Write a timestamped CSV snapshot of the full register to the
configured output directory.

By default one snapshot is written and the command exits. With --follow the
command stays in the foreground and writes snapshots on the cron schedule
from register.snapshot_schedule until interrupted; configuration file edits
are picked up without a restart.`,
	RunE: runRegisterSnapshot,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.AddCommand(registerListCmd, registerShowCmd, registerSnapshotCmd)

	registerListCmd.Flags().StringVar(&registerFlags.search, "search", "", "search term (reference, exhibit number, investigator)")
	registerListCmd.Flags().StringVar(&registerFlags.deviceType, "device-type", "", "filter by device type")
	registerListCmd.Flags().StringVar(&registerFlags.status, "status", "", "filter by extraction status")
	registerListCmd.Flags().IntVar(&registerFlags.limit, "limit", 0, "max results (default 100)")
	registerListCmd.Flags().IntVar(&registerFlags.offset, "offset", 0, "pagination offset")
	registerListCmd.Flags().StringVar(&registerFlags.sortBy, "sort-by", "", "sort field: created_at, device_id, exhibit_number, reference_number, date_of_use")
	registerListCmd.Flags().StringVar(&registerFlags.sortOrder, "sort-order", "", "sort order: asc, desc")
	registerListCmd.Flags().StringVar(&registerFlags.format, "format", "text", "output format: text, json, csv")
	registerListCmd.Flags().StringVarP(&registerFlags.output, "output", "o", "", "output file (default: stdout)")
	registerListCmd.Flags().BoolVar(&registerFlags.pretty, "pretty", false, "pretty-print JSON output")

	registerShowCmd.Flags().StringVar(&registerFlags.format, "format", "text", "output format: text, json")

	registerSnapshotCmd.Flags().BoolVar(&registerFlags.follow, "follow", false, "stay running and snapshot on the configured cron schedule")
}

func runRegisterList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	q := &exhibit.Query{
		SearchTerm: registerFlags.search,
		DeviceType: exhibit.DeviceType(registerFlags.deviceType),
		Status:     exhibit.ExtractionStatus(registerFlags.status),
		Limit:      registerFlags.limit,
		Offset:     registerFlags.offset,
		SortBy:     registerFlags.sortBy,
		SortOrder:  registerFlags.sortOrder,
	}
	if err := query.Validate(q); err != nil {
		return err
	}
	query.ApplyDefaults(q)

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewCommandError("register list", err)
	}
	defer store.Close()

	ctx := context.Background()
	coll := openMetrics(cfg)
	records, err := listRegister(ctx, store, q, coll)
	if err != nil {
		return cli.NewCommandError("register list", err)
	}

	output := os.Stdout
	if registerFlags.output != "" {
		output, err = os.Create(registerFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	switch registerFlags.format {
	case "json":
		if err := export.NewJSONExporter(registerFlags.pretty).Export(ctx, records, output); err != nil {
			return err
		}
		recordExport(coll, "json")
		return nil
	case "csv":
		if err := export.NewCSVExporter(true).Export(ctx, records, output); err != nil {
			return err
		}
		recordExport(coll, "csv")
		return nil
	case "text":
		return writeRegisterTable(output, records)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, csv)", registerFlags.format)
	}
}

// listRegister fetches the requested register page, applying the free-text
// search before pagination, and records query timing.
func listRegister(ctx context.Context, store exhibit.Storage, q *exhibit.Query, coll *metrics.Collector) ([]*exhibit.Record, error) {
	start := time.Now()
	records, err := query.Search(ctx, store, q)
	if err != nil {
		return nil, err
	}
	if coll != nil {
		coll.RecordQuery(time.Since(start))
	}
	return records, nil
}

func recordExport(coll *metrics.Collector, format string) {
	if coll != nil {
		coll.RecordExport(format)
	}
}

func writeRegisterTable(output *os.File, records []*exhibit.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(output, "No exhibits found.")
		return nil
	}

	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tEXHIBIT NUMBER\tREFERENCE\tTYPE\tINVESTIGATOR\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Device.ID,
			r.Device.ExhibitNumber,
			r.Device.ReferenceNumber,
			r.Device.DeviceType,
			r.Request.InvestigatorName,
			r.Request.ExtractionStatus,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(output, "\n%d exhibit(s)\n", len(records))
	return nil
}

func runRegisterShow(cmd *cobra.Command, args []string) error {
	deviceID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid device id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewCommandError("register show", err)
	}
	defer store.Close()

	ctx := context.Background()
	record, err := store.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return cli.NewCommandError("register show", err)
	}

	if registerFlags.format == "json" {
		return export.NewJSONExporter(true).ExportOne(ctx, record, os.Stdout)
	}

	for _, f := range export.ReportFields(record) {
		if f.Value == "" {
			continue
		}
		fmt.Printf("%-22s %s\n", f.Label+":", f.Value)
	}
	return nil
}

func runRegisterSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewCommandError("register snapshot", err)
	}
	defer store.Close()

	if registerFlags.follow {
		return runSnapshotFollow(cli.SetupSignalHandler(), store, cfg)
	}

	snapshotter := register.NewSnapshotter(store, &register.Config{
		OutputDir: cfg.Register.OutputDir,
	})

	count, path, err := snapshotter.Snapshot(context.Background())
	if err != nil {
		return cli.NewCommandError("register snapshot", err)
	}

	recordExport(openMetrics(cfg), "csv")
	fmt.Printf("Snapshot written: %s (%d records)\n", path, count)
	return nil
}

// runSnapshotFollow keeps the process in the foreground, writing snapshots
// on the configured cron schedule until ctx is cancelled. The configuration
// file is watched so schedule and output directory edits take effect without
// a restart.
func runSnapshotFollow(ctx context.Context, store exhibit.Storage, cfg *config.Config) error {
	if cfg.Register.SnapshotSchedule == "" {
		return cli.NewConfigError("register.snapshot_schedule", "no schedule configured for --follow")
	}

	startScheduler := func(c *config.Config) (*register.Snapshotter, error) {
		snap := register.NewSnapshotter(store, &register.Config{
			SnapshotSchedule: c.Register.SnapshotSchedule,
			OutputDir:        c.Register.OutputDir,
		})
		if err := snap.Scheduler().Start(ctx); err != nil {
			return nil, err
		}
		return snap, nil
	}

	snap, err := startScheduler(cfg)
	if err != nil {
		return cli.NewCommandError("register snapshot", err)
	}
	if next := snap.Scheduler().NextRun(); next != nil {
		fmt.Printf("Snapshot scheduler running, next run %s. Interrupt to stop.\n",
			next.UTC().Format(time.RFC3339))
	}

	watcher, err := config.NewWatcher(cfgFile)
	if err != nil {
		snap.Scheduler().Stop()
		return cli.NewCommandError("register snapshot", err)
	}

	// Guards snap and current against the watcher callback.
	var mu sync.Mutex
	current := cfg.Register

	go func() {
		err := watcher.Watch(ctx, func(newCfg *config.Config) {
			mu.Lock()
			defer mu.Unlock()

			if newCfg.Register == current {
				return
			}
			snap.Scheduler().Stop()
			ns, err := startScheduler(newCfg)
			if err != nil {
				slog.Error("snapshot schedule change not applied", "error", err)
				return
			}
			snap = ns
			current = newCfg.Register
			slog.Info("snapshot scheduler restarted",
				"schedule", current.SnapshotSchedule,
				"output_dir", current.OutputDir,
			)
		})
		if err != nil {
			slog.Error("configuration watcher failed", "error", err)
		}
	}()

	<-ctx.Done()

	mu.Lock()
	snap.Scheduler().Stop()
	mu.Unlock()
	watcher.Stop()
	return nil
}
