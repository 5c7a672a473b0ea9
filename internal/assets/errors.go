package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested theme does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the theme name contains path separators,
	// dots, or is empty.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrAssetRead indicates an I/O error occurred while reading a CSS file.
	ErrAssetRead = errors.New("failed to read asset")
)
