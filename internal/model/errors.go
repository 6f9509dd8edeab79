package model

import "errors"

// Precondition failures. They are detected before any numerical work and
// are returned wrapped with context; match them with errors.Is.
var (
	// ErrInsufficientData means the price series has fewer than 2 points.
	ErrInsufficientData = errors.New("insufficient price data")
	// ErrInvalidParameter means a simulation parameter is out of range.
	ErrInvalidParameter = errors.New("invalid simulation parameter")
	// ErrDataNotReady means prices were requested before the source finished loading.
	ErrDataNotReady = errors.New("price data not loaded yet")
)
