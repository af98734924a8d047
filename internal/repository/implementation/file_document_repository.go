package implementation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/entity"
)

// writeDocumentAtomic marshals v and replaces path in one step: the bytes
// go to a temp file in the same directory, are synced, and then renamed
// over the target. A crash mid-write leaves either the old document or the
// new one, never a torn file.
func writeDocumentAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Persistence("marshal document", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperr.Persistence("create data directory", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperr.Persistence("create temp document", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.Persistence("write document", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperr.Persistence("sync document", err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Persistence("close document", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return apperr.Persistence("replace document", err)
	}
	return nil
}

func readDocument(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperr.Persistence("read document", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, apperr.Persistence(fmt.Sprintf("decode document %s", filepath.Base(path)), err)
	}
	return true, nil
}

// FilePlannerRepository stores the planner document as one JSON file.
type FilePlannerRepository struct {
	path string
}

func NewFilePlannerRepository(path string) *FilePlannerRepository {
	return &FilePlannerRepository{path: path}
}

func (r *FilePlannerRepository) Load() (*entity.PlannerDocument, error) {
	var doc entity.PlannerDocument
	found, err := readDocument(r.path, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	doc.Normalize()
	return &doc, nil
}

func (r *FilePlannerRepository) Save(doc *entity.PlannerDocument) error {
	return writeDocumentAtomic(r.path, doc)
}

// FileMemoryRepository stores the conversation memory document as one JSON
// file, using the same atomic replace strategy as the planner document.
type FileMemoryRepository struct {
	path string
}

func NewFileMemoryRepository(path string) *FileMemoryRepository {
	return &FileMemoryRepository{path: path}
}

func (r *FileMemoryRepository) Load() (*entity.MemoryDocument, error) {
	var doc entity.MemoryDocument
	found, err := readDocument(r.path, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	doc.Normalize()
	return &doc, nil
}

func (r *FileMemoryRepository) Save(doc *entity.MemoryDocument) error {
	return writeDocumentAtomic(r.path, doc)
}
