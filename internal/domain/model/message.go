package model

import (
	"strings"
	"time"

	"telegram-support-bridge/internal/domain"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored sender value back to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", domain.ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// Icon is the marker used in the admin history digest.
func (r Role) Icon() string {
	if r == RoleUser {
		return "👤"
	}
	return "🛠"
}

// Message is one entry of the support conversation log.
// ID and Timestamp are assigned by the store; IsRead is never written here.
type Message struct {
	ID        int64
	Text      string
	Sender    Role
	Timestamp time.Time
	IsRead    bool
}

// NormalizeText trims surrounding whitespace and rejects empty content.
func NormalizeText(text string) (string, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return "", domain.ErrTextRequired
	}
	return t, nil
}
