package event

import (
	"github.com/google/uuid"
)

// ExecutionID identifies one distributed execution attempt. The zero value
// means "no execution".
type ExecutionID string

// NewExecutionID returns a fresh random id.
func NewExecutionID() ExecutionID {
	return ExecutionID(uuid.NewString())
}

// ParseExecutionID validates s as a UUID and returns it in canonical form.
func ParseExecutionID(s string) (ExecutionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return ExecutionID(id.String()), nil
}

func (id ExecutionID) String() string {
	return string(id)
}
