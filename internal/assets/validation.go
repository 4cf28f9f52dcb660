package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName reports whether name can be used as an asset file stem.
// Blank names and names containing separators, dots or NUL are rejected
// with ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
