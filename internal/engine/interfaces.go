package engine

import (
	"github.com/MoneNarendra/unibudget/internal/service"
)

// Dependencies groups the collaborators a Coordinator needs.
// Advisor may be nil, in which case Advice returns the setup hint.
type Dependencies struct {
	Storage service.Storage
	Clock   service.Clock
	IDs     service.IDGenerator
	Advisor service.Advisor
}
