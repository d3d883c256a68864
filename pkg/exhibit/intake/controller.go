package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"evidex-hq/custodia/pkg/blob"
	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/number"
	"evidex-hq/custodia/pkg/security/auth"
)

// TransitionPolicy selects how status transitions are enforced.
type TransitionPolicy string

const (
	// PolicyPermissive allows reassigning any status at any time, matching
	// the behavior units rely on today for correcting mis-entered statuses.
	PolicyPermissive TransitionPolicy = "permissive"

	// PolicyStrict only allows the forward sequence
	// Pending -> Processing -> Completed -> Released.
	PolicyStrict TransitionPolicy = "strict"
)

// Auditor records intake and status-change events after they commit.
// Implemented by auditlog.Log.
type Auditor interface {
	RecordIntake(ctx context.Context, actor string, deviceID int64, exhibitNumber string) error
	RecordStatusChange(ctx context.Context, actor string, deviceID int64, from, to exhibit.ExtractionStatus) error
}

// Metrics receives intake outcome observations. Implemented by the telemetry
// metrics collector.
type Metrics interface {
	RecordIntake(deviceType, status, outcome string, duration time.Duration)
	RecordStatusChange(to string)
}

// Config contains configuration and optional collaborators for the
// lifecycle controller.
type Config struct {
	// OrgTag is the organization segment of generated exhibit numbers.
	// Default: number.DefaultOrgTag
	OrgTag string

	// TransitionPolicy selects strict or permissive status transitions.
	// Default: PolicyPermissive
	TransitionPolicy TransitionPolicy

	// Images stores intake photographs. Optional; when nil, submitted image
	// bytes are ignored.
	Images blob.Store

	// Audit receives post-commit audit events. Optional.
	Audit Auditor

	// Metrics receives intake observations. Optional.
	Metrics Metrics

	// Clock supplies the current time; tests override it. Default: time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() *Config {
	return &Config{
		OrgTag:           number.DefaultOrgTag,
		TransitionPolicy: PolicyPermissive,
		Clock:            time.Now,
	}
}

// Receipt acknowledges a committed intake.
type Receipt struct {
	// IntakeID correlates this submission across the audit log and blob
	// store. It is not the exhibit number.
	IntakeID string

	DeviceID      int64
	ExhibitNumber string
}

// Controller orchestrates validator, generator, and repository for one
// intake submission, and drives status transitions afterwards.
type Controller struct {
	storage exhibit.Storage
	gen     *number.Generator
	config  *Config
	logger  *slog.Logger
}

// NewController creates a lifecycle controller over the given storage backend.
func NewController(storage exhibit.Storage, config *Config) *Controller {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.TransitionPolicy == "" {
		config.TransitionPolicy = PolicyPermissive
	}

	return &Controller{
		storage: storage,
		gen:     number.New(config.OrgTag),
		config:  config,
		logger:  slog.Default().With("component", "exhibit.intake"),
	}
}

// SubmitIntake validates the form and creates the Device/Request pair as one
// unit of work. The sequence is: validate, insert device, generate the
// exhibit number from the assigned device id, assign it, insert the linked
// request, commit. Validation failures surface verbatim with zero writes;
// any failure after validation rolls everything back and surfaces a single
// IntakeFailedError wrapping the cause.
func (c *Controller) SubmitIntake(ctx context.Context, form *Form, who auth.Identity) (*Receipt, error) {
	start := c.config.Clock()

	if err := Validate(form); err != nil {
		c.observeIntake(form, "rejected", start)
		return nil, err
	}

	// The generator needs both names; fail before any write rather than
	// inside the transaction.
	if _, err := number.Initials(who.FirstName, who.LastName); err != nil {
		c.observeIntake(form, "rejected", start)
		return nil, err
	}

	status := form.ExtractionStatus
	if status == "" {
		status = exhibit.StatusPending
	}

	now := c.config.Clock()
	intakeID := uuid.New().String()

	device := &exhibit.Device{
		DeviceType:         form.DeviceType,
		CustomDeviceType:   form.CustomDeviceType,
		Make:               form.Make,
		Model:              form.Model,
		Color:              form.Color,
		ReferenceNumber:    form.ReferenceNumber,
		Description:        form.Description,
		SerialNumber:       form.SerialNumber,
		IMEINumber:         form.IMEINumber,
		PINPasswordPattern: form.PINPassword,
		CreatedAt:          now,
	}

	imageKeys, err := c.storeImages(ctx, intakeID, form)
	if err != nil {
		c.observeIntake(form, "failed", start)
		return nil, exhibit.NewIntakeFailedError(err)
	}
	device.FrontImageKey = imageKeys.front
	device.BackImageKey = imageKeys.back

	request := &exhibit.Request{
		Unit:              form.Unit,
		Department:        form.Department,
		InvestigatorName:  form.InvestigatorName,
		InvestigatorPhone: form.InvestigatorPhone,
		DateOfUse:         form.DateOfUse,
		ExtractionStatus:  status,
	}
	if status == exhibit.StatusReleased {
		// The release date is stamped here, at transition time, never taken
		// from caller input.
		releaseDate := now
		request.ReleaseContactName = form.ReleaseContactName
		request.ReleaseContactPhone = form.ReleaseContactPhone
		request.ReleaseDate = &releaseDate
	}

	var deviceID int64
	var exhibitNumber string
	err = c.storage.Intake(ctx, func(tx exhibit.IntakeTx) error {
		id, err := tx.CreateDevice(ctx, device)
		if err != nil {
			return err
		}
		deviceID = id

		exhibitNumber, err = c.gen.Generate(form.DeviceType, who.FirstName, who.LastName, id, now)
		if err != nil {
			return err
		}
		if err := tx.AssignExhibitNumber(ctx, id, exhibitNumber); err != nil {
			return err
		}

		request.DeviceID = id
		return tx.CreateRequest(ctx, request)
	})
	if err != nil {
		c.cleanupImages(ctx, imageKeys)
		c.observeIntake(form, "failed", start)
		return nil, exhibit.NewIntakeFailedError(err)
	}

	c.observeIntake(form, "committed", start)
	c.logger.Info("intake committed",
		"intake_id", intakeID,
		"device_id", deviceID,
		"exhibit_number", exhibitNumber,
		"device_type", form.DeviceType,
		"status", status,
		"submitted_by", who.Username,
	)

	if c.config.Audit != nil {
		if err := c.config.Audit.RecordIntake(ctx, who.Username, deviceID, exhibitNumber); err != nil {
			c.logger.Error("audit record failed", "device_id", deviceID, "error", err)
		}
	}

	return &Receipt{
		IntakeID:      intakeID,
		DeviceID:      deviceID,
		ExhibitNumber: exhibitNumber,
	}, nil
}

// UpdateStatus transitions the extraction status of an existing exhibit.
// Under the strict policy only the next status in the forward sequence is
// accepted; the permissive policy allows any reassignment. Transitioning to
// Released requires release contact details and stamps the release date.
func (c *Controller) UpdateStatus(ctx context.Context, deviceID int64, to exhibit.ExtractionStatus, release *exhibit.ReleaseInfo, who auth.Identity) error {
	if !to.Valid() {
		return exhibit.NewInvalidFieldError("extraction_status",
			fmt.Sprintf("unknown status %q", to))
	}

	record, err := c.storage.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return err
	}
	from := record.Request.ExtractionStatus

	if c.config.TransitionPolicy == PolicyStrict {
		next, ok := from.Next()
		if !ok || next != to {
			return exhibit.NewTransitionError(from, to)
		}
	}

	var releaseDate *time.Time
	if to == exhibit.StatusReleased {
		if release == nil || release.ContactName == "" {
			return exhibit.NewMissingReleaseInfoError("release_contact_name")
		}
		if release.ContactPhone == "" {
			return exhibit.NewMissingReleaseInfoError("release_contact_phone")
		}
		now := c.config.Clock()
		releaseDate = &now
	} else {
		release = nil
	}

	if err := c.storage.UpdateStatus(ctx, deviceID, to, release, releaseDate); err != nil {
		return err
	}

	c.logger.Info("status updated",
		"device_id", deviceID,
		"from", from,
		"to", to,
		"updated_by", who.Username,
	)
	if c.config.Metrics != nil {
		c.config.Metrics.RecordStatusChange(string(to))
	}
	if c.config.Audit != nil {
		if err := c.config.Audit.RecordStatusChange(ctx, who.Username, deviceID, from, to); err != nil {
			c.logger.Error("audit record failed", "device_id", deviceID, "error", err)
		}
	}
	return nil
}

// imageKeys holds the blob keys of one intake's photographs.
type imageKeys struct {
	front string
	back  string
}

// storeImages writes the submitted photographs to the blob store before the
// transaction opens, so the device row can reference their keys.
func (c *Controller) storeImages(ctx context.Context, intakeID string, form *Form) (imageKeys, error) {
	var keys imageKeys
	if c.config.Images == nil {
		return keys, nil
	}

	if len(form.FrontImage) > 0 {
		key := fmt.Sprintf("devices/%s/front.jpg", intakeID)
		if err := c.config.Images.Put(ctx, key, form.FrontImage, "image/jpeg"); err != nil {
			return keys, err
		}
		keys.front = key
	}
	if len(form.BackImage) > 0 {
		key := fmt.Sprintf("devices/%s/back.jpg", intakeID)
		if err := c.config.Images.Put(ctx, key, form.BackImage, "image/jpeg"); err != nil {
			c.cleanupImages(ctx, keys)
			return imageKeys{}, err
		}
		keys.back = key
	}
	return keys, nil
}

// cleanupImages removes blobs left behind by a rolled-back intake.
// Best effort: a leaked blob is logged, not surfaced.
func (c *Controller) cleanupImages(ctx context.Context, keys imageKeys) {
	if c.config.Images == nil {
		return
	}
	for _, key := range []string{keys.front, keys.back} {
		if key == "" {
			continue
		}
		if _, err := c.config.Images.Delete(ctx, key); err != nil {
			c.logger.Warn("failed to clean up image blob", "key", key, "error", err)
		}
	}
}

// observeIntake reports one submission outcome to the metrics collector.
func (c *Controller) observeIntake(form *Form, outcome string, start time.Time) {
	if c.config.Metrics == nil {
		return
	}
	status := form.ExtractionStatus
	if status == "" {
		status = exhibit.StatusPending
	}
	c.config.Metrics.RecordIntake(string(form.DeviceType), string(status), outcome, c.config.Clock().Sub(start))
}
