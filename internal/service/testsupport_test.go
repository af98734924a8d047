package service

import (
	"errors"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/entity"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakePlannerRepo keeps the document in memory. Setting failSave makes
// every Save return a persistence error without touching the stored doc.
type fakePlannerRepo struct {
	doc      *entity.PlannerDocument
	saves    int
	failSave bool
}

func (r *fakePlannerRepo) Load() (*entity.PlannerDocument, error) {
	if r.doc == nil {
		return nil, nil
	}
	return r.doc.Clone(), nil
}

func (r *fakePlannerRepo) Save(doc *entity.PlannerDocument) error {
	if r.failSave {
		return apperr.Persistence("save planner document", errors.New("disk full"))
	}
	r.doc = doc.Clone()
	r.saves++
	return nil
}

type fakeMemoryRepo struct {
	doc      *entity.MemoryDocument
	saves    int
	failSave bool
}

func (r *fakeMemoryRepo) Load() (*entity.MemoryDocument, error) {
	if r.doc == nil {
		return nil, nil
	}
	return r.doc.Clone(), nil
}

func (r *fakeMemoryRepo) Save(doc *entity.MemoryDocument) error {
	if r.failSave {
		return apperr.Persistence("save memory document", errors.New("disk full"))
	}
	r.doc = doc.Clone()
	r.saves++
	return nil
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
