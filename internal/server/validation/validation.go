// Package validation parses untrusted subscriber input into clean values.
// Every failure wraps common.ErrorValidation.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

// MaxNameGraphemes is the longest display name accepted.
const MaxNameGraphemes = 256

const forbiddenNameChars = `/(){}"<>\`

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseEmail trims s and checks it is a plausible address.
func ParseEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: email is empty", common.ErrorValidation)
	}
	if err := validate.Var(s, "email"); err != nil {
		return "", fmt.Errorf("%w: %q is not a valid email", common.ErrorValidation, s)
	}
	return s, nil
}

// ParseName trims s and checks length, forbidden characters and control
// characters.
func ParseName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: name is empty", common.ErrorValidation)
	}
	if n := uniseg.GraphemeClusterCount(s); n > MaxNameGraphemes {
		return "", fmt.Errorf("%w: name is %d characters long, max %d", common.ErrorValidation, n, MaxNameGraphemes)
	}
	if strings.ContainsAny(s, forbiddenNameChars) {
		return "", fmt.Errorf("%w: name contains one of %s", common.ErrorValidation, forbiddenNameChars)
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: name contains control characters", common.ErrorValidation)
	}
	return s, nil
}

// ValidateIssue checks that an issue has a title and both bodies.
func ValidateIssue(issue models.Issue) error {
	if err := validate.Struct(issue); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, verrs[0].Namespace())
		}
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return nil
}
