package memory

import "github.com/osse101/CaseVault_Go/internal/domain"

const (
	// DefaultTargetRatio matches the target seeded by the migrations
	DefaultTargetRatio domain.Ratio = 1500

	// SystemActor is recorded for changes not made by an operator
	SystemActor = "system"
)
