package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"evidex-hq/custodia/pkg/cli"
	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/intake"
)

var intakeFlags struct {
	deviceType       string
	customDeviceType string
	deviceMake       string
	model            string
	color            string
	reference        string
	description      string
	serialNumber     string
	imeiNumber       string
	pinPassword      string
	frontImage       string
	backImage        string

	unit              string
	department        string
	investigator      string
	investigatorPhone string
	dateOfUse         string
	status            string

	releaseContactName  string
	releaseContactPhone string
}

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Record a new exhibit",
	Long: `Record a new exhibit: one device and its investigative request are
created together, and the exhibit number is assigned from the stored device id
and the operator's initials. A submission that fails validation writes
nothing.

Examples:
  # Minimal intake
  custodia intake --device-type Smartphone --reference CASE-2026-001 \
      --investigator "Jane Doe" --operator-first Jane --operator-last Doe

  # Full intake with images
  custodia intake --device-type Laptop --make Dell --model XPS13 \
      --reference CASE-2026-044 --investigator "Rita Moreno" \
      --front-image front.jpg --back-image back.jpg \
      --operator-first Rita --operator-last Moreno

  # Device outside the standard categories
  custodia intake --device-type Other --custom-device-type Smartwatch \
      --reference CASE-2026-050 --investigator "Jane Doe" \
      --operator-first Jane --operator-last Doe`,
	RunE: runIntake,
}

func init() {
	rootCmd.AddCommand(intakeCmd)

	intakeCmd.Flags().StringVar(&intakeFlags.deviceType, "device-type", "", "device type: Smartphone, Laptop, HardDrive, FlashDrive, Drone, Other")
	intakeCmd.Flags().StringVar(&intakeFlags.customDeviceType, "custom-device-type", "", "device type label when --device-type is Other")
	intakeCmd.Flags().StringVar(&intakeFlags.deviceMake, "make", "", "device make")
	intakeCmd.Flags().StringVar(&intakeFlags.model, "model", "", "device model")
	intakeCmd.Flags().StringVar(&intakeFlags.color, "color", "", "device color")
	intakeCmd.Flags().StringVar(&intakeFlags.reference, "reference", "", "case reference number")
	intakeCmd.Flags().StringVar(&intakeFlags.description, "description", "", "free-text description (max 150 characters)")
	intakeCmd.Flags().StringVar(&intakeFlags.serialNumber, "serial", "", "serial number")
	intakeCmd.Flags().StringVar(&intakeFlags.imeiNumber, "imei", "", "IMEI number")
	intakeCmd.Flags().StringVar(&intakeFlags.pinPassword, "pin", "", "PIN/password/pattern (stored, never exported)")
	intakeCmd.Flags().StringVar(&intakeFlags.frontImage, "front-image", "", "path to front photograph")
	intakeCmd.Flags().StringVar(&intakeFlags.backImage, "back-image", "", "path to back photograph")

	intakeCmd.Flags().StringVar(&intakeFlags.unit, "unit", "", "requesting unit")
	intakeCmd.Flags().StringVar(&intakeFlags.department, "department", "", "requesting department")
	intakeCmd.Flags().StringVar(&intakeFlags.investigator, "investigator", "", "investigator name")
	intakeCmd.Flags().StringVar(&intakeFlags.investigatorPhone, "investigator-phone", "", "investigator phone")
	intakeCmd.Flags().StringVar(&intakeFlags.dateOfUse, "date-of-use", "", "date of use (YYYY-MM-DD, default today)")
	intakeCmd.Flags().StringVar(&intakeFlags.status, "status", "", "initial extraction status (default Pending)")

	intakeCmd.Flags().StringVar(&intakeFlags.releaseContactName, "release-contact-name", "", "release contact name (required when --status Released)")
	intakeCmd.Flags().StringVar(&intakeFlags.releaseContactPhone, "release-contact-phone", "", "release contact phone (required when --status Released)")
}

func runIntake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	form := &intake.Form{
		DeviceType:       exhibit.DeviceType(intakeFlags.deviceType),
		CustomDeviceType: intakeFlags.customDeviceType,
		Make:             intakeFlags.deviceMake,
		Model:            intakeFlags.model,
		Color:            intakeFlags.color,
		ReferenceNumber:  intakeFlags.reference,
		Description:      intakeFlags.description,
		SerialNumber:     intakeFlags.serialNumber,
		IMEINumber:       intakeFlags.imeiNumber,
		PINPassword:      intakeFlags.pinPassword,

		Unit:              intakeFlags.unit,
		Department:        intakeFlags.department,
		InvestigatorName:  intakeFlags.investigator,
		InvestigatorPhone: intakeFlags.investigatorPhone,
		ExtractionStatus:  exhibit.ExtractionStatus(intakeFlags.status),

		ReleaseContactName:  intakeFlags.releaseContactName,
		ReleaseContactPhone: intakeFlags.releaseContactPhone,
	}

	form.DateOfUse = time.Now().UTC()
	if intakeFlags.dateOfUse != "" {
		d, err := time.Parse("2006-01-02", intakeFlags.dateOfUse)
		if err != nil {
			return fmt.Errorf("invalid --date-of-use (expected YYYY-MM-DD): %w", err)
		}
		form.DateOfUse = d
	}

	if intakeFlags.frontImage != "" {
		data, err := os.ReadFile(intakeFlags.frontImage)
		if err != nil {
			return fmt.Errorf("reading front image: %w", err)
		}
		form.FrontImage = data
	}
	if intakeFlags.backImage != "" {
		data, err := os.ReadFile(intakeFlags.backImage)
		if err != nil {
			return fmt.Errorf("reading back image: %w", err)
		}
		form.BackImage = data
	}

	who, err := currentIdentity()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()

	deps, err := buildController(ctx, cfg)
	if err != nil {
		return cli.NewCommandError("intake", err)
	}
	defer deps.close()

	receipt, err := deps.controller.SubmitIntake(ctx, form, who)
	if err != nil {
		if exhibit.IsValidation(err) {
			return fmt.Errorf("submission rejected: %w", err)
		}
		return cli.NewCommandError("intake", err)
	}

	fmt.Printf("Exhibit recorded\n")
	fmt.Printf("  Device ID:      %d\n", receipt.DeviceID)
	fmt.Printf("  Exhibit Number: %s\n", receipt.ExhibitNumber)
	fmt.Printf("  Intake ID:      %s\n", receipt.IntakeID)
	return nil
}
