package main

import "errors"

var (
	errInvalidDimensions  = errors.New("grid dimensions must not be negative")
	errGridTooLarge       = errors.New("grid too large")
	errMaxCellsNegative   = errors.New("max_cells must not be negative")
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
	errListenEmpty        = errors.New("listen address cannot be empty")
	errThresholdRange     = errors.New("bitmap_threshold must be between 0 and 255")
	errToleranceNegative  = errors.New("simplify_tolerance must not be negative")
	errSnapshotInvalid    = errors.New("invalid grid snapshot")
	errObstaclesInvalid   = errors.New("invalid obstacle collection")
	errBitmapInvalid      = errors.New("invalid bitmap")
)
