// Package intake validates submitted evidence forms and orchestrates the
// device/request creation lifecycle.
package intake

import (
	"fmt"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
)

// Form is the raw intake submission from the presentation layer. Image bytes
// are carried alongside the fields; the controller moves them to the blob
// store and records only their keys.
type Form struct {
	// Device fields.
	DeviceType       exhibit.DeviceType
	CustomDeviceType string
	Make             string
	Model            string
	Color            string
	ReferenceNumber  string
	Description      string
	SerialNumber     string
	IMEINumber       string
	FrontImage       []byte
	BackImage        []byte
	PINPassword      string

	// Request fields.
	Unit              string
	Department        string
	InvestigatorName  string
	InvestigatorPhone string
	DateOfUse         time.Time
	ExtractionStatus  exhibit.ExtractionStatus

	// Release contacts, required iff ExtractionStatus == StatusReleased.
	// The release date is stamped by the controller, never taken from here.
	ReleaseContactName  string
	ReleaseContactPhone string
}

// Validate enforces the required-field and conditional-field rules before any
// write happens. It returns the first violation found:
//
//   - MissingRequiredFieldError for reference_number, device_type, or
//     investigator_name
//   - MissingCustomTypeError when device_type is Other with no custom type
//   - MissingReleaseInfoError when status is Released without release contacts
//   - InvalidFieldError for malformed enum values or an over-long description
//
// All other fields are optional and stored as absent when empty.
func Validate(f *Form) error {
	if f.ReferenceNumber == "" {
		return exhibit.NewMissingRequiredFieldError("reference_number")
	}
	if f.DeviceType == "" {
		return exhibit.NewMissingRequiredFieldError("device_type")
	}
	if f.InvestigatorName == "" {
		return exhibit.NewMissingRequiredFieldError("investigator_name")
	}

	if !f.DeviceType.Valid() {
		return exhibit.NewInvalidFieldError("device_type",
			fmt.Sprintf("unknown device type %q", f.DeviceType))
	}
	if f.DeviceType == exhibit.DeviceOther && f.CustomDeviceType == "" {
		return &exhibit.MissingCustomTypeError{}
	}

	if f.ExtractionStatus != "" && !f.ExtractionStatus.Valid() {
		return exhibit.NewInvalidFieldError("extraction_status",
			fmt.Sprintf("unknown status %q", f.ExtractionStatus))
	}
	if f.ExtractionStatus == exhibit.StatusReleased {
		if f.ReleaseContactName == "" {
			return exhibit.NewMissingReleaseInfoError("release_contact_name")
		}
		if f.ReleaseContactPhone == "" {
			return exhibit.NewMissingReleaseInfoError("release_contact_phone")
		}
	}

	if len(f.Description) > exhibit.MaxDescriptionLen {
		return exhibit.NewInvalidFieldError("description",
			fmt.Sprintf("exceeds %d characters", exhibit.MaxDescriptionLen))
	}

	return nil
}
