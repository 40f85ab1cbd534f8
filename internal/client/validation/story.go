// Package validation contains pure validators for story submissions and
// account credentials. Story validators collect every violated rule instead
// of stopping at the first one, so callers can show complete field hints.
package validation

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	DescriptionMinLen = 10
	DescriptionMaxLen = 500

	// MaxPhotoSize is the upload limit enforced by the remote API.
	MaxPhotoSize = 1 << 20
)

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
}

var allowedPhotoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// magic-number prefixes of the accepted image formats, hex of the first 4 bytes
var photoSignatures = map[string]string{
	"89504e47": "image/png",
	"ffd8ffe0": "image/jpeg",
	"ffd8ffe1": "image/jpeg",
	"ffd8ffe2": "image/jpeg",
	"47494638": "image/gif",
}

// Result is the outcome of validating one field.
type Result struct {
	Valid  bool
	Errors []string
}

func failure(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateDescription trims the text and checks the length bounds.
// The trimmed value is returned so callers can submit exactly what was
// validated.
func ValidateDescription(description string) (string, Result) {
	var errs []string
	trimmed := strings.TrimSpace(description)

	if trimmed == "" {
		errs = append(errs, "description is required")
		return trimmed, failure(errs)
	}
	length := utf8.RuneCountInString(trimmed)
	if length < DescriptionMinLen {
		errs = append(errs, fmt.Sprintf("description should be at least %d characters long", DescriptionMinLen))
	}
	if length > DescriptionMaxLen {
		errs = append(errs, fmt.Sprintf("description should not exceed %d characters", DescriptionMaxLen))
	}
	return trimmed, failure(errs)
}

// Photo describes the file chosen for upload. MIME is the declared type,
// independent of the extension check.
type Photo struct {
	Name string
	MIME string
	Size int64
}

// ValidatePhoto checks type, extension, and size. The declared MIME type and
// the file extension are verified independently; a zero-byte file is treated
// as corrupted.
func ValidatePhoto(p Photo) Result {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "photo is required")
		return failure(errs)
	}

	if _, ok := allowedPhotoTypes[strings.ToLower(p.MIME)]; !ok {
		errs = append(errs, "photo must be a JPG, PNG or GIF image")
	}

	ext := strings.ToLower(filepath.Ext(p.Name))
	if _, ok := allowedPhotoExtensions[ext]; !ok {
		errs = append(errs, fmt.Sprintf("photo has an unsupported extension %q", ext))
	}

	if p.Size > MaxPhotoSize {
		errs = append(errs, "photo must be smaller than 1MB")
	}
	if p.Size == 0 {
		errs = append(errs, "photo appears to be corrupted")
	}

	return failure(errs)
}

// ValidatePhotoContent is the stricter, optional check: the first 4 bytes of
// the file must carry a known image signature agreeing with an accepted type.
func ValidatePhotoContent(head []byte) error {
	if len(head) < 4 {
		return fmt.Errorf("photo appears to be corrupted")
	}
	sig := hex.EncodeToString(head[:4])
	if _, ok := photoSignatures[sig]; !ok {
		return fmt.Errorf("photo content does not match an accepted image format")
	}
	return nil
}

// Location is a validated coordinate pair.
type Location struct {
	Lat float64
	Lon float64
}

// ValidateLocation accepts an optional pair: nil/nil is valid, one without
// the other is not. Ranges are [-90,90] for latitude and [-180,180] for
// longitude. On success with both set, the parsed pair is returned.
func ValidateLocation(lat, lon *float64) (*Location, Result) {
	var errs []string

	if lat == nil && lon == nil {
		return nil, failure(nil)
	}

	if (lat == nil) != (lon == nil) {
		errs = append(errs, "invalid coordinates: latitude and longitude must be provided together")
	}

	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, "invalid latitude: must be between -90 and 90")
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		errs = append(errs, "invalid longitude: must be between -180 and 180")
	}

	if len(errs) > 0 {
		return nil, failure(errs)
	}
	return &Location{Lat: *lat, Lon: *lon}, failure(nil)
}

// Form collects the raw story-submission fields.
type Form struct {
	Description string
	Photo       Photo
	Lat         *float64
	Lon         *float64
}

// FormValues carries the sanitized values of a valid form.
type FormValues struct {
	Description string
	Location    *Location
}

// FormResult aggregates the per-field outcomes. FieldErrors flattens every
// violated rule in field order.
type FormResult struct {
	Valid       bool
	Description Result
	Photo       Result
	Location    Result
	FieldErrors []string
	Values      FormValues
}

// ValidateStoryForm runs the description, photo, and location validators and
// aggregates their results.
func ValidateStoryForm(f Form) FormResult {
	var res FormResult
	res.Valid = true

	desc, dres := ValidateDescription(f.Description)
	res.Description = dres
	res.Values.Description = desc

	res.Photo = ValidatePhoto(f.Photo)

	loc, lres := ValidateLocation(f.Lat, f.Lon)
	res.Location = lres
	res.Values.Location = loc

	for _, r := range []Result{dres, res.Photo, lres} {
		if !r.Valid {
			res.Valid = false
			res.FieldErrors = append(res.FieldErrors, r.Errors...)
		}
	}
	return res
}
