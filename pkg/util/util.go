package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a standard v4 UUID.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateShortUUID returns a v4 UUID without dashes.
func GenerateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// GenerateSessionID returns the identifier handed to the chat widget for a
// new support conversation.
func GenerateSessionID() string {
	return "S" + GenerateShortUUID()[:19]
}

// GenerateOrderNo returns a human-scannable order reference.
func GenerateOrderNo() string {
	return "PO-" + strings.ToUpper(GenerateShortUUID()[:12])
}
