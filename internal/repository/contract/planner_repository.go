package contract

import (
	"ai-planner-be/internal/entity"
)

// PlannerRepository persists the planner root document as a whole.
// Load returns (nil, nil) when no document exists yet.
type PlannerRepository interface {
	Load() (*entity.PlannerDocument, error)
	Save(doc *entity.PlannerDocument) error
}

// MemoryRepository persists the conversation memory document as a whole.
// Load returns (nil, nil) when no document exists yet.
type MemoryRepository interface {
	Load() (*entity.MemoryDocument, error)
	Save(doc *entity.MemoryDocument) error
}
