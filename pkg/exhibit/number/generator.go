// Package number generates exhibit numbers for intaken devices.
//
// An exhibit number encodes the device category, the intake month/year, the
// handling officer's initials, and the storage-assigned device id:
//
//	ORG/SP/0126/JD/42
//
// Generation is pure: no randomness, no counters, no external state. The same
// inputs always produce the same number, which keeps assigned identifiers
// reproducible and auditable after the fact.
package number

import (
	"fmt"
	"time"
	"unicode"

	"evidex-hq/custodia/pkg/exhibit"
)

// DefaultOrgTag is the organization segment used when none is configured.
const DefaultOrgTag = "ORG"

// deviceCodes maps device categories to their short codes. Unrecognized
// categories fall back to the Other code.
var deviceCodes = map[exhibit.DeviceType]string{
	exhibit.DeviceSmartphone: "SP",
	exhibit.DeviceLaptop:     "L",
	exhibit.DeviceHardDrive:  "HD",
	exhibit.DeviceFlashDrive: "FD",
	exhibit.DeviceDrone:      "D",
	exhibit.DeviceOther:      "OTH",
}

// Generator produces exhibit numbers under a fixed organization tag.
// The zero value uses DefaultOrgTag.
type Generator struct {
	orgTag string
}

// New creates a Generator with the given organization tag. An empty tag
// falls back to DefaultOrgTag.
func New(orgTag string) *Generator {
	if orgTag == "" {
		orgTag = DefaultOrgTag
	}
	return &Generator{orgTag: orgTag}
}

// Generate computes the exhibit number for a device. The device id must
// already be assigned by storage, since it is part of the identifier.
// Returns an InvalidInputError if either name is empty.
func (g *Generator) Generate(deviceType exhibit.DeviceType, firstName, lastName string, deviceID int64, at time.Time) (string, error) {
	initials, err := Initials(firstName, lastName)
	if err != nil {
		return "", err
	}

	code, ok := deviceCodes[deviceType]
	if !ok {
		code = deviceCodes[exhibit.DeviceOther]
	}

	// 2-digit month followed by 2-digit year.
	monthYear := at.Format("0106")

	return fmt.Sprintf("%s/%s/%s/%s/%d", g.orgTag, code, monthYear, initials, deviceID), nil
}

// Initials derives the uppercase two-letter handler initials from a first and
// last name. Returns an InvalidInputError if either name is empty.
func Initials(firstName, lastName string) (string, error) {
	if firstName == "" {
		return "", exhibit.NewInvalidInputError("first name is empty")
	}
	if lastName == "" {
		return "", exhibit.NewInvalidInputError("last name is empty")
	}

	first := []rune(firstName)
	last := []rune(lastName)
	return string([]rune{unicode.ToUpper(first[0]), unicode.ToUpper(last[0])}), nil
}
