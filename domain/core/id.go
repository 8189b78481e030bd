package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation.
// Falls back to v4 if v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// NewShortID returns 12 hex characters of a time-ordered UUID: the low 36
// bits of its millisecond timestamp followed by its 12-bit sub-millisecond
// sequence, so IDs generated within the same millisecond still differ. It is
// used for StoredProfileInfo.id and other identifiers that are displayed
// rather than round-tripped through foreign-key joins.
func NewShortID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return hex[3:12] + hex[13:16]
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ProfileID  ID
	SessionID  ID
	PatternID  ID
	SegmentKey ID
)

func (id ProfileID) String() string  { return ID(id).String() }
func (id SessionID) String() string  { return ID(id).String() }
func (id PatternID) String() string  { return ID(id).String() }
func (id SegmentKey) String() string { return ID(id).String() }

// ParseProfileID parses a string into ProfileID
func ParseProfileID(s string) (ProfileID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("profile ID cannot be empty")
	}
	return ProfileID(s), nil
}

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}
