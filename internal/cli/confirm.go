package cli

import (
	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question on the terminal. It defaults to no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes, delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
