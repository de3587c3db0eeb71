package engine

import "github.com/google/uuid"

// generateID creates a random UUID for sessions and request tickets.
func generateID() string {
	return uuid.NewString()
}
