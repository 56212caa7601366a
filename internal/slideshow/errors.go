package slideshow

import (
	"errors"
	"strings"

	"montage/internal/services"
)

const (
	reasonNoImages     = "no images selected"
	reasonAudioMissing = "audio file missing"
)

// ValidationError reports input the user has to fix before a slideshow can be
// assembled.
type ValidationError struct {
	Field  string
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Path) == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Path
}

// ErrorKind classifies the failure for callers that render errors.
func (e *ValidationError) ErrorKind() string {
	return "validation"
}

// Unwrap lets errors.Is match services.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return services.ErrValidation
}

// IsNoImages reports whether err is the empty-selection validation failure.
func IsNoImages(err error) bool {
	return hasReason(err, reasonNoImages)
}

// IsAudioMissing reports whether err is the missing-audio validation failure.
func IsAudioMissing(err error) bool {
	return hasReason(err, reasonAudioMissing)
}

func hasReason(err error, reason string) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	return verr.Reason == reason
}
