package implementation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/entity"
)

func TestFilePlannerRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	repo := NewFilePlannerRepository(path)

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing file should load as nil document")

	doc := entity.NewPlannerDocument("2025-07-14")
	doc.DailySchedules["2025-07-16"] = &entity.DaySchedule{
		Date:       "2025-07-16",
		WeekNumber: 1,
		Tasks: []entity.DailyTask{
			{Name: "Study math", BelongsToDay: "2025-07-16", StartTime: "14:00", EndTime: "16:00", CanReschedule: true, CanCompress: true},
		},
	}
	doc.WeeklySchedules[3] = &entity.WeekSchedule{
		WeekNumber: 3,
		DateRange:  "2025-07-28 - 2025-08-03",
		Tasks: []entity.WeeklyTask{
			{Name: "Finish thesis draft", BelongsToWeek: 3, Priority: entity.PriorityHigh},
		},
	}
	require.NoError(t, repo.Save(doc))

	reloaded, err := repo.Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "2025-07-14", reloaded.StartDate)
	require.Contains(t, reloaded.DailySchedules, "2025-07-16")
	assert.Equal(t, doc.DailySchedules["2025-07-16"].Tasks, reloaded.DailySchedules["2025-07-16"].Tasks)
	require.Contains(t, reloaded.WeeklySchedules, 3)
	assert.Equal(t, entity.PriorityHigh, reloaded.WeeklySchedules[3].Tasks[0].Priority)
}

func TestFilePlannerRepositorySaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewFilePlannerRepository(filepath.Join(dir, "schedules.json"))

	require.NoError(t, repo.Save(entity.NewPlannerDocument("2025-07-14")))
	require.NoError(t, repo.Save(entity.NewPlannerDocument("2025-07-14")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "schedules.json", entries[0].Name())
}

func TestFilePlannerRepositoryCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "schedules.json")
	repo := NewFilePlannerRepository(path)

	require.NoError(t, repo.Save(entity.NewPlannerDocument("2025-07-14")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFilePlannerRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo := NewFilePlannerRepository(path)
	_, err := repo.Load()
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestFileMemoryRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversation_memory.json")
	repo := NewFileMemoryRepository(path)

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	now := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)
	doc := entity.NewMemoryDocument()
	doc.Messages = append(doc.Messages, entity.ChatMessage{
		Id:         "m1",
		Role:       entity.ChatRoleUser,
		Content:    "schedule study at 14:00",
		Importance: entity.ImportanceHigh,
		Timestamp:  now,
	})
	doc.UserProfile = entity.UserProfile{Name: "Alice", Age: 25, Preferences: []string{"short meetings"}}
	doc.UpdatedAt = now
	require.NoError(t, repo.Save(doc))

	reloaded, err := repo.Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, doc.Messages, reloaded.Messages)
	assert.Equal(t, doc.UserProfile, reloaded.UserProfile)
}

func TestFileMemoryRepositoryNormalizesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversation_memory.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_profile":{}}`), 0644))

	repo := NewFileMemoryRepository(path)
	loaded, err := repo.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.NotNil(t, loaded.Messages, "messages slice should be normalized")
}
