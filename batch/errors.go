package batch

import "errors"

var (
	// ErrPartitionMerge reports an empty or malformed part result, or a merged
	// tour that does not visit every node exactly once.
	ErrPartitionMerge = errors.New("batch: partition merge failed")

	// ErrInvalidConfig reports coordinator settings outside their domain.
	ErrInvalidConfig = errors.New("batch: invalid config")

	// ErrStoreClosed is returned by Store methods after Close.
	ErrStoreClosed = errors.New("batch: checkpoint store closed")
)
