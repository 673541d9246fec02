package domain

import "errors"

var (
	// ErrDataUnavailable wraps any failure of an underlying repository.
	ErrDataUnavailable = errors.New("data unavailable")

	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSortView = errors.New("invalid sort view")
	ErrInvalidWeek     = errors.New("invalid week key")

	// ErrInvalidSnapshot is returned when snapshot positions are not exactly 1..N.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	ErrSnapshotNotFound = errors.New("snapshot not found")
)
