package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/pkg/planner/policy"
)

// newTestPlanner seeds a document anchored at Monday 2025-07-14 and pins
// the service clock to Wednesday 2025-07-16.
func newTestPlanner(t *testing.T) (*plannerService, *fakePlannerRepo) {
	t.Helper()
	repo := &fakePlannerRepo{doc: entity.NewPlannerDocument("2025-07-14")}
	svc, err := NewPlannerService(repo, nil, noopLogger{})
	require.NoError(t, err)
	ps := svc.(*plannerService)
	ps.now = func() time.Time {
		return time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
	}
	return ps, repo
}

func TestNewPlannerServiceSeedsDocument(t *testing.T) {
	repo := &fakePlannerRepo{}
	svc, err := NewPlannerService(repo, nil, noopLogger{})
	require.NoError(t, err)
	require.NotNil(t, repo.doc, "fresh service must persist the seed document")
	assert.Equal(t, repo.doc.StartDate, svc.StartDate().Format("2006-01-02"))
	assert.Equal(t, 1, svc.CurrentWeek())
}

func TestAddDailyTaskUnchanged(t *testing.T) {
	svc, repo := newTestPlanner(t)

	task, outcome, err := svc.AddDailyTask(context.Background(), &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.OutcomeUnchanged), outcome)
	assert.Equal(t, "14:00", task.StartTime)
	assert.True(t, task.CanReschedule, "reschedule defaults on")
	assert.True(t, task.CanCompress, "compress defaults on")
	assert.False(t, task.CanParallel, "parallel defaults off")

	day := repo.doc.DailySchedules["2025-07-16"]
	require.NotNil(t, day, "mutation must be persisted")
	assert.Equal(t, 1, day.WeekNumber)
	require.Len(t, day.Tasks, 1)
}

func TestAddDailyTaskRescheduledAroundFixedBlock(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Team meeting", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false), CanParallel: boolPtr(false),
	})
	require.NoError(t, err)

	task, outcome, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:30", EndTime: "16:30",
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.OutcomeRescheduled), outcome)
	assert.Equal(t, "16:00", task.StartTime)
	assert.Equal(t, "18:00", task.EndTime)
}

func TestAddDailyTaskRescheduledToEndOfDay(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Movie night", Date: "2025-07-16", StartTime: "22:00", EndTime: "23:00",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false), CanParallel: boolPtr(false),
	})
	require.NoError(t, err)

	task, outcome, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Journal", Date: "2025-07-16", StartTime: "22:00", EndTime: "23:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.OutcomeRescheduled), outcome)
	assert.Equal(t, "23:00", task.StartTime)
	assert.Equal(t, "24:00", task.EndTime)

	// The slot up to midnight is taken; a fixed task inside it must conflict.
	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Late snack", Date: "2025-07-16", StartTime: "23:00", EndTime: "23:30",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false), CanParallel: boolPtr(false),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Journal", apperr.DetailsOf(err)["blocking_task"])
}

func TestAddDailyTaskCanonicalizesTimes(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Standup", Date: "2025-07-16", StartTime: "10:00", EndTime: "10:30",
	})
	require.NoError(t, err)

	task, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Morning run", Date: "2025-07-16", StartTime: "9:00", EndTime: "9:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", task.StartTime)
	assert.Equal(t, "09:30", task.EndTime)

	day := repo.doc.DailySchedules["2025-07-16"]
	require.Len(t, day.Tasks, 2)
	assert.Equal(t, "Morning run", day.Tasks[0].Name, "earlier task sorts first")
	assert.Equal(t, "Standup", day.Tasks[1].Name)
}

func TestAddDailyTaskParallelOverlaps(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Team meeting", Date: "2025-07-16", StartTime: "12:00", EndTime: "13:00",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false),
	})
	require.NoError(t, err)

	task, outcome, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Lunch", Date: "2025-07-16", StartTime: "12:00", EndTime: "12:30",
		CanParallel: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.OutcomeUnchanged), outcome)
	assert.Equal(t, "12:00", task.StartTime)
}

func TestAddDailyTaskConflict(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Doctor appointment", Date: "2025-07-16", StartTime: "09:00", EndTime: "18:00",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false),
	})
	require.NoError(t, err)
	savesBefore := repo.saves

	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Dentist", Date: "2025-07-16", StartTime: "10:00", EndTime: "11:00",
		CanReschedule: boolPtr(false), CanCompress: boolPtr(false),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	details := apperr.DetailsOf(err)
	require.NotNil(t, details)
	assert.Equal(t, "Doctor appointment", details["blocking_task"])
	assert.Equal(t, savesBefore, repo.saves, "failed mutation must not persist")

	day := repo.doc.DailySchedules["2025-07-16"]
	assert.Len(t, day.Tasks, 1)
}

func TestAddDailyTaskDuplicateName(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "18:00", EndTime: "19:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAddDailyTaskRelativeDates(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Review notes", Date: "today", StartTime: "08:00", EndTime: "09:00",
	})
	require.NoError(t, err)
	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Pack bags", Date: "tomorrow", StartTime: "08:00", EndTime: "09:00",
	})
	require.NoError(t, err)

	assert.Contains(t, repo.doc.DailySchedules, "2025-07-16")
	assert.Contains(t, repo.doc.DailySchedules, "2025-07-17")
}

func TestAddDailyTaskInvalidDate(t *testing.T) {
	svc, _ := newTestPlanner(t)

	_, _, err := svc.AddDailyTask(context.Background(), &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "16/07/2025", StartTime: "14:00", EndTime: "16:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateDailyTaskPatch(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	task, outcome, err := svc.UpdateDailyTask(ctx, &dto.UpdateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16",
		NewName:   strPtr("Study physics"),
		StartTime: strPtr("15:00"),
		EndTime:   strPtr("17:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.OutcomeUnchanged), outcome)
	assert.Equal(t, "Study physics", task.Name)
	assert.Equal(t, "15:00", task.StartTime)
	assert.True(t, task.CanReschedule, "untouched fields keep their values")
}

func TestUpdateDailyTaskNotFound(t *testing.T) {
	svc, _ := newTestPlanner(t)

	_, _, err := svc.UpdateDailyTask(context.Background(), &dto.UpdateDailyTaskRequest{
		Name: "Ghost task", Date: "2025-07-16", StartTime: strPtr("10:00"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateDailyTaskRenameCollision(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	for _, task := range []struct{ name, start, end string }{
		{"Study math", "14:00", "16:00"},
		{"Study physics", "16:00", "18:00"},
	} {
		_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
			Name: task.name, Date: "2025-07-16", StartTime: task.start, EndTime: task.end,
		})
		require.NoError(t, err)
	}

	_, _, err := svc.UpdateDailyTask(ctx, &dto.UpdateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", NewName: strPtr("Study physics"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRemoveDailyTask(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	req := &dto.RemoveDailyTaskRequest{Name: "Study math", Date: "2025-07-16"}
	require.NoError(t, svc.RemoveDailyTask(ctx, req))
	assert.Empty(t, repo.doc.DailySchedules["2025-07-16"].Tasks)

	err = svc.RemoveDailyTask(ctx, req)
	require.Error(t, err, "second remove must report the task is gone")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddWeeklyTaskPriorityOrdering(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	for _, task := range []struct{ name, priority string }{
		{"Tidy desk", "low"},
		{"Finish thesis draft", "critical"},
		{"Read paper", ""}, // defaults to medium
		{"Prepare slides", "high"},
	} {
		_, err := svc.AddWeeklyTask(ctx, &dto.CreateWeeklyTaskRequest{
			Name: task.name, WeekNumber: 3, Priority: task.priority,
		})
		require.NoError(t, err)
	}

	week := repo.doc.WeeklySchedules[3]
	require.NotNil(t, week)
	assert.Equal(t, "2025-07-28 - 2025-08-03", week.DateRange)
	var names []string
	for _, task := range week.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"Finish thesis draft", "Prepare slides", "Read paper", "Tidy desk"}, names)
}

func TestAddWeeklyTaskRejectsUnknownPriority(t *testing.T) {
	svc, _ := newTestPlanner(t)

	_, err := svc.AddWeeklyTask(context.Background(), &dto.CreateWeeklyTaskRequest{
		Name: "Finish thesis draft", WeekNumber: 3, Priority: "urgent",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateWeeklyTask(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, err := svc.AddWeeklyTask(ctx, &dto.CreateWeeklyTaskRequest{
		Name: "Read paper", WeekNumber: 2, Priority: "low",
	})
	require.NoError(t, err)

	task, err := svc.UpdateWeeklyTask(ctx, &dto.UpdateWeeklyTaskRequest{
		Name: "Read paper", WeekNumber: 2, Priority: strPtr("critical"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityCritical, task.Priority)
	assert.Equal(t, entity.PriorityCritical, repo.doc.WeeklySchedules[2].Tasks[0].Priority)
}

func TestRemoveWeeklyTaskNotFound(t *testing.T) {
	svc, _ := newTestPlanner(t)

	err := svc.RemoveWeeklyTask(context.Background(), &dto.RemoveWeeklyTaskRequest{
		Name: "Ghost task", WeekNumber: 2,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetDailyScheduleUnplannedDay(t *testing.T) {
	svc, _ := newTestPlanner(t)

	day, err := svc.GetDailySchedule(context.Background(), "2025-07-25")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-25", day.Date)
	assert.Equal(t, 2, day.WeekNumber)
	assert.Empty(t, day.Tasks)
}

func TestGetDailyScheduleReturnsCopy(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	day, err := svc.GetDailySchedule(ctx, "2025-07-16")
	require.NoError(t, err)
	day.Tasks[0].Name = "tampered"

	fresh, err := svc.GetDailySchedule(ctx, "2025-07-16")
	require.NoError(t, err)
	assert.Equal(t, "Study math", fresh.Tasks[0].Name)
}

func TestGetScheduleRange(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	for _, date := range []string{"2025-07-15", "2025-07-17", "2025-07-22"} {
		_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
			Name: "Review notes", Date: date, StartTime: "08:00", EndTime: "09:00",
		})
		require.NoError(t, err)
	}

	days, err := svc.GetScheduleRange(ctx, "2025-07-14", "2025-07-20")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-07-15", days[0].Date)
	assert.Equal(t, "2025-07-17", days[1].Date)

	_, err = svc.GetScheduleRange(ctx, "2025-07-20", "2025-07-14")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetScheduleRangeTooLarge(t *testing.T) {
	svc, _ := newTestPlanner(t)

	_, err := svc.GetScheduleRange(context.Background(), "2025-07-14", "2027-07-14")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// A full leap-year span still passes.
	days, err := svc.GetScheduleRange(context.Background(), "2025-07-14", "2026-07-14")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGetStatistics(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)
	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Review notes", Date: "2025-07-17", StartTime: "08:00", EndTime: "09:00",
	})
	require.NoError(t, err)
	_, err = svc.AddWeeklyTask(ctx, &dto.CreateWeeklyTaskRequest{
		Name: "Finish thesis draft", WeekNumber: 3, Priority: "high",
	})
	require.NoError(t, err)

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", stats.StartDate)
	assert.Equal(t, 1, stats.CurrentWeek)
	assert.Equal(t, 2, stats.TotalDailySchedules)
	assert.Equal(t, 1, stats.TotalWeeklySchedules)
	assert.Equal(t, 2, stats.TotalDailyTasks)
	assert.Equal(t, 1, stats.TotalWeeklyTasks)
}

func TestMutationRollsBackOnPersistFailure(t *testing.T) {
	svc, repo := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	repo.failSave = true
	_, _, err = svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Review notes", Date: "2025-07-16", StartTime: "08:00", EndTime: "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))

	repo.failSave = false
	day, err := svc.GetDailySchedule(ctx, "2025-07-16")
	require.NoError(t, err)
	require.Len(t, day.Tasks, 1, "failed write must leave in-memory state untouched")
	assert.Equal(t, "Study math", day.Tasks[0].Name)
}

func TestExportDetachedFromLiveState(t *testing.T) {
	svc, _ := newTestPlanner(t)
	ctx := context.Background()

	_, _, err := svc.AddDailyTask(ctx, &dto.CreateDailyTaskRequest{
		Name: "Study math", Date: "2025-07-16", StartTime: "14:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	snapshot, err := svc.Export(ctx)
	require.NoError(t, err)
	snapshot.DailySchedules["2025-07-16"].Tasks[0].Name = "tampered"

	day, err := svc.GetDailySchedule(ctx, "2025-07-16")
	require.NoError(t, err)
	assert.Equal(t, "Study math", day.Tasks[0].Name)
}
