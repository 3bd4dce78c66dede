package authority

import "fmt"

// BatchError reports the authority id at which a bulk delete stopped.
type BatchError struct {
	ID  uint64
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("authority %d: %v", e.ID, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
