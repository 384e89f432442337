package attendance

import "errors"

var (
	// ErrInvalidMatricule signals a matricule that fails format validation.
	ErrInvalidMatricule = errors.New("attendance: invalid matricule")
	// ErrInvalidStatus signals an unknown status label.
	ErrInvalidStatus = errors.New("attendance: invalid status")
	// ErrInvalidRange signals a fetch range whose end precedes its start.
	ErrInvalidRange = errors.New("attendance: invalid date range")
)
