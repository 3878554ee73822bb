package coursemark

import (
	"errors"

	"github.com/alnah/go-coursemark/internal/assets"
	"github.com/alnah/go-coursemark/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInvalidMode      = errors.New("invalid conversion mode")
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrDocumentRender   = pipeline.ErrDocumentRender
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Asset loading errors.
	ErrStyleNotFound = assets.ErrStyleNotFound
)
