package common

import "github.com/google/uuid"

// GenerateRequestID returns a unique id used to correlate log entries for a
// single engine call.
func GenerateRequestID() string {
	return uuid.New().String()
}
