package valueobjects

import (
	"strings"

	pkgerrors "crossroads-backend/pkg/errors"
)

// Option is one selectable choice on a decision node. Options are ordered;
// their position is the display order shown to the user.
type Option struct {
	id   OptionID
	text string
}

// NewOption creates an option with a fresh id.
func NewOption(text string) (Option, error) {
	return reconstructOption(NewOptionID(), text)
}

// ReconstructOption recreates an option from stored data.
func ReconstructOption(id OptionID, text string) (Option, error) {
	if id.IsZero() {
		return Option{}, pkgerrors.New(pkgerrors.ErrorTypeValidation, "OPTION_ID_REQUIRED", "option id cannot be empty")
	}
	return reconstructOption(id, text)
}

func reconstructOption(id OptionID, text string) (Option, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Option{}, pkgerrors.New(pkgerrors.ErrorTypeValidation, "OPTION_TEXT_REQUIRED", "option text cannot be empty")
	}
	return Option{id: id, text: text}, nil
}

// ID returns the option's identifier.
func (o Option) ID() OptionID { return o.id }

// Text returns the label shown to the user.
func (o Option) Text() string { return o.text }

// Equals checks identity, not text: two options with equal labels on
// different nodes are distinct choices.
func (o Option) Equals(other Option) bool {
	return o.id.Equals(other.id)
}
