package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"evidex-hq/custodia/pkg/cli"
	"evidex-hq/custodia/pkg/exhibit/auditlog"
)

var auditFlags struct {
	limit int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log",
	Long: `Inspect the append-only audit log of intake submissions and status
transitions.

Subcommands:
  trail   - Audit trail for one exhibit, oldest first
  recent  - Most recent entries across all exhibits`,
}

var auditTrailCmd = &cobra.Command{
	Use:   "trail <device-id>",
	Short: "Audit trail for one exhibit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTrail,
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent audit entries",
	RunE:  runAuditRecent,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditTrailCmd, auditRecentCmd)

	auditRecentCmd.Flags().IntVar(&auditFlags.limit, "limit", 50, "max entries")
}

func openAuditLog() (*auditlog.Log, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if !cfg.Audit.Enabled {
		return nil, fmt.Errorf("audit log is disabled in configuration")
	}
	return auditlog.Open(cfg.Audit.Path)
}

func runAuditTrail(cmd *cobra.Command, args []string) error {
	deviceID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid device id %q", args[0])
	}

	log, err := openAuditLog()
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.ListByDevice(context.Background(), deviceID)
	if err != nil {
		return cli.NewCommandError("audit trail", err)
	}

	writeAuditTable(entries)
	return nil
}

func runAuditRecent(cmd *cobra.Command, args []string) error {
	log, err := openAuditLog()
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.ListRecent(context.Background(), auditFlags.limit)
	if err != nil {
		return cli.NewCommandError("audit recent", err)
	}

	writeAuditTable(entries)
	return nil
}

func writeAuditTable(entries []*auditlog.Entry) {
	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tACTOR\tDEVICE\tDETAIL")
	for _, e := range entries {
		detail := e.ExhibitNumber
		if e.Action == auditlog.ActionStatusChange {
			detail = fmt.Sprintf("%s -> %s", e.FromStatus, e.ToStatus)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.OccurredAt.Format(time.RFC3339),
			e.Action,
			e.Actor,
			e.DeviceID,
			detail,
		)
	}
	w.Flush()
}
