package entities

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "crossroads-backend/pkg/errors"
)

// AdvisorProfile is the user's preferred advisor persona: a short free-text
// description that gets appended verbatim to the system prompt. The engine
// treats the rendered clause as opaque text.
type AdvisorProfile struct {
	userID    string
	name      string
	style     string
	traits    []string
	updatedAt time.Time
}

// NewAdvisorProfile creates a profile for a user.
func NewAdvisorProfile(userID, name, style string, traits []string) (*AdvisorProfile, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "USER_ID_REQUIRED", "userID cannot be empty")
	}
	clean := make([]string, 0, len(traits))
	for _, t := range traits {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return &AdvisorProfile{
		userID:    userID,
		name:      strings.TrimSpace(name),
		style:     strings.TrimSpace(style),
		traits:    clean,
		updatedAt: time.Now().UTC(),
	}, nil
}

// ReconstructAdvisorProfile recreates a profile from stored data.
func ReconstructAdvisorProfile(userID, name, style string, traits []string, updatedAt time.Time) (*AdvisorProfile, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.ErrorTypeValidation, "USER_ID_REQUIRED", "userID cannot be empty")
	}
	return &AdvisorProfile{
		userID:    userID,
		name:      name,
		style:     style,
		traits:    append([]string(nil), traits...),
		updatedAt: updatedAt,
	}, nil
}

// UserID returns the owner's ID.
func (a *AdvisorProfile) UserID() string { return a.userID }

// Name returns the advisor's display name.
func (a *AdvisorProfile) Name() string { return a.name }

// Style returns the advisor's described style.
func (a *AdvisorProfile) Style() string { return a.style }

// Traits returns the advisor's traits.
func (a *AdvisorProfile) Traits() []string {
	return append([]string(nil), a.traits...)
}

// UpdatedAt returns when the profile last changed.
func (a *AdvisorProfile) UpdatedAt() time.Time { return a.updatedAt }

// PersonaClause renders the persona sentence injected into the system
// prompt. Empty when the profile carries no usable description.
func (a *AdvisorProfile) PersonaClause() string {
	var parts []string
	if a.name != "" {
		parts = append(parts, fmt.Sprintf("You are advising as %s.", a.name))
	}
	if a.style != "" {
		parts = append(parts, fmt.Sprintf("Your advising style: %s.", a.style))
	}
	if len(a.traits) > 0 {
		parts = append(parts, fmt.Sprintf("You are %s.", strings.Join(a.traits, ", ")))
	}
	return strings.Join(parts, " ")
}
