package sdk

import "github.com/kailas-cloud/esquery"

// Sentinel errors re-exported from the engine. Use errors.Is() to check.
var (
	ErrInvalidFilterConfig    = esquery.ErrInvalidFilterConfig
	ErrUnknownFilter          = esquery.ErrUnknownFilter
	ErrMalformedQueryDocument = esquery.ErrMalformedQueryDocument
	ErrNoSuchOperation        = esquery.ErrNoSuchOperation
	ErrInvalidArgument        = esquery.ErrInvalidArgument
	ErrRegistryFrozen         = esquery.ErrRegistryFrozen
)
