package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Fatal to the current search: there is no vector to search with.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrTranslationFailed signals a translation provider failure.
	// Always recoverable: callers fall back per call site.
	ErrTranslationFailed = errors.New("translation failed")
	// ErrPartitionSearch signals a single-partition search failure.
	ErrPartitionSearch = errors.New("partition search failed")
	// ErrSessionRequired signals a toggle operation without a session.
	ErrSessionRequired = errors.New("session required")
	// ErrUnknownToggleKey signals a malformed translation toggle key.
	ErrUnknownToggleKey = errors.New("unknown toggle key")
)

// PartitionError wraps ErrPartitionSearch with the partition name so
// failures can be attributed without inspecting goroutine state.
type PartitionError struct {
	Partition string
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %q: %s", e.Partition, e.Err.Error())
}

func (e *PartitionError) Unwrap() error { return ErrPartitionSearch }

// NewPartitionError creates a partition search error.
func NewPartitionError(partition string, err error) error {
	return &PartitionError{Partition: partition, Err: err}
}
