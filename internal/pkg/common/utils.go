package common

import "github.com/google/uuid"

// GenerateUUID returns a fresh random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}
