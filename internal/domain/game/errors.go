package game

import "errors"

var (
	ErrRequirementNotMet           = errors.New("requirement not met")
	ErrInvalidTaskState            = errors.New("invalid slayer task state")
	ErrInsufficientResources       = errors.New("insufficient resources")
	ErrCorruptedCharacterReference = errors.New("corrupted character reference")
	ErrCombatOffline               = errors.New("combat does not continue offline")
	ErrNoOfflineProgress           = errors.New("no offline progress")
	ErrActionNotRunnable           = errors.New("action is not runnable")
	ErrUnknownAction               = errors.New("unknown action")
	ErrInvalidCatalog              = errors.New("invalid catalog")
	ErrNotEquippable               = errors.New("item is not equippable")
)

type RequirementError struct {
	Requirement Requirement
}

func (e *RequirementError) Error() string {
	return ErrRequirementNotMet.Error() + ": " + e.Requirement.String()
}

func (e *RequirementError) Unwrap() error {
	return ErrRequirementNotMet
}
