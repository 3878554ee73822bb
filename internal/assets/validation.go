package assets

import (
	"fmt"
	"regexp"
)

// MaxAssetNameLength bounds style names, which become file names.
const MaxAssetNameLength = 64

// assetNamePattern admits letters, digits, hyphen and underscore, starting
// with a letter or digit. Dots and separators are excluded, so a name can
// neither change the .css extension nor leave the styles directory.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateAssetName checks that a style name is safe for use as a filename.
// Returns ErrInvalidAssetName for empty, overlong, or malformed names.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrInvalidAssetName, len(name), MaxAssetNameLength)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
