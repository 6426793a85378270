package grades

import "errors"

var (
	// ErrNotFound: room, student or grade record absent.
	ErrNotFound = errors.New("not found")
	// ErrNotEnrolled: the student is not a member of the room.
	ErrNotEnrolled = errors.New("student not enrolled in room")
	// ErrInvalidMarks: exam marks outside their declared range. Wrapped
	// messages name the offending field.
	ErrInvalidMarks = errors.New("marks out of range")
	// ErrAggregation: reading graded items failed; nothing was written.
	ErrAggregation = errors.New("aggregation failed")
)
