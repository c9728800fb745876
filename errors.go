package suggestd

import "github.com/kailas-cloud/suggestd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidConfiguration = domain.ErrInvalidConfiguration
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrIndexNotFound        = domain.ErrIndexNotFound
	ErrIndexExists          = domain.ErrIndexExists
	ErrInvalidDocument      = domain.ErrInvalidDocument
	ErrDocumentNotFound     = domain.ErrDocumentNotFound
	ErrBackend              = domain.ErrBackend
)
