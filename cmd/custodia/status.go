package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"evidex-hq/custodia/pkg/cli"
	"evidex-hq/custodia/pkg/exhibit"
)

var statusFlags struct {
	releaseContactName  string
	releaseContactPhone string
}

var statusCmd = &cobra.Command{
	Use:   "status <device-id> <status>",
	Short: "Update the extraction status of an exhibit",
	Long: `Update the extraction status of an exhibit.

Statuses: Pending, Processing, Completed, Released.

Transitioning to Released requires the release contact details; the release
date is stamped automatically. Moving away from Released clears the release
fields.

Examples:
  custodia status 42 Processing

  custodia status 42 Released \
      --release-contact-name "Officer Kim" --release-contact-phone 555-0100`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusFlags.releaseContactName, "release-contact-name", "", "who the exhibit is released to")
	statusCmd.Flags().StringVar(&statusFlags.releaseContactPhone, "release-contact-phone", "", "release contact phone")
}

func runStatus(cmd *cobra.Command, args []string) error {
	deviceID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid device id %q", args[0])
	}
	to := exhibit.ExtractionStatus(args[1])

	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	who, err := currentIdentity()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()

	deps, err := buildController(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("status", err)
	}
	defer deps.close()

	var release *exhibit.ReleaseInfo
	if statusFlags.releaseContactName != "" || statusFlags.releaseContactPhone != "" {
		release = &exhibit.ReleaseInfo{
			ContactName:  statusFlags.releaseContactName,
			ContactPhone: statusFlags.releaseContactPhone,
		}
	}

	if err := deps.controller.UpdateStatus(ctx, deviceID, to, release, who); err != nil {
		return cli.NewCommandError("status", err)
	}

	fmt.Printf("Device %d status set to %s\n", deviceID, to)
	return nil
}
