package assets

import "errors"

var (
	// ErrStyleNotFound: no {name}.css in any configured location.
	ErrStyleNotFound = errors.New("style not found")
	// ErrInvalidAssetName: the name is empty, too long, or not a bare file stem.
	ErrInvalidAssetName = errors.New("invalid asset name")
	// ErrInvalidBasePath: --asset-path is missing, unreadable, or a file.
	ErrInvalidBasePath = errors.New("invalid asset directory")
	// ErrAssetRead: the style exists but reading it failed.
	ErrAssetRead = errors.New("cannot read style")
	// ErrPathTraversal: the style resolves outside {basePath}/styles.
	ErrPathTraversal = errors.New("style escapes asset directory")
)
