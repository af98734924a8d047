package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/pkg/timeutil"
	"ai-planner-be/internal/repository/contract"
	"ai-planner-be/pkg/events"
	"ai-planner-be/pkg/planner/policy"
)

// maxRangeDays caps how many days a single range read may span, so a
// caller-supplied range cannot hold the planner lock for an open-ended scan.
const maxRangeDays = 366

// IPlannerService is the single authority over the planning document. All
// mutations are serialized, written to disk before they are visible, and
// rolled back in memory when the write fails.
type IPlannerService interface {
	AddDailyTask(ctx context.Context, req *dto.CreateDailyTaskRequest) (*entity.DailyTask, string, error)
	UpdateDailyTask(ctx context.Context, req *dto.UpdateDailyTaskRequest) (*entity.DailyTask, string, error)
	RemoveDailyTask(ctx context.Context, req *dto.RemoveDailyTaskRequest) error
	AddWeeklyTask(ctx context.Context, req *dto.CreateWeeklyTaskRequest) (*entity.WeeklyTask, error)
	UpdateWeeklyTask(ctx context.Context, req *dto.UpdateWeeklyTaskRequest) (*entity.WeeklyTask, error)
	RemoveWeeklyTask(ctx context.Context, req *dto.RemoveWeeklyTaskRequest) error
	GetDailySchedule(ctx context.Context, date string) (*entity.DaySchedule, error)
	GetWeeklySchedule(ctx context.Context, weekNumber int) (*entity.WeekSchedule, error)
	GetScheduleRange(ctx context.Context, startDate, endDate string) ([]*entity.DaySchedule, error)
	GetStatistics(ctx context.Context) (*dto.PlannerStatistics, error)
	Export(ctx context.Context) (*entity.PlannerDocument, error)
	StartDate() time.Time
	CurrentWeek() int
}

type plannerService struct {
	repo contract.PlannerRepository
	bus  *events.Bus
	log  logger.ILogger
	now  func() time.Time

	mu        sync.Mutex
	doc       *entity.PlannerDocument
	startDate time.Time
}

func NewPlannerService(repo contract.PlannerRepository, bus *events.Bus, log logger.ILogger) (IPlannerService, error) {
	s := &plannerService{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// restore loads the persisted document or seeds a fresh one anchored at
// today. The anchor date never changes for the lifetime of the document.
func (s *plannerService) restore() error {
	doc, err := s.repo.Load()
	if err != nil {
		return err
	}
	if doc == nil {
		doc = entity.NewPlannerDocument(s.now().UTC().Format(timeutil.DateLayout))
		if err := s.repo.Save(doc); err != nil {
			return err
		}
		s.log.Info("PlannerService", "initialized new planning document", map[string]interface{}{
			"start_date": doc.StartDate,
		})
	}
	start, err := timeutil.ParseDate(doc.StartDate)
	if err != nil {
		return apperr.Persistence("planning document has malformed start date", err)
	}
	s.doc = doc
	s.startDate = start
	return nil
}

func (s *plannerService) StartDate() time.Time { return s.startDate }

func (s *plannerService) CurrentWeek() int {
	return timeutil.WeekNumber(s.startDate, s.now().UTC())
}

// mutate runs fn against a deep copy of the document, persists the copy,
// and only then swaps it in. A failed write leaves the in-memory state
// exactly as it was.
func (s *plannerService) mutate(fn func(doc *entity.PlannerDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.repo.Save(next); err != nil {
		s.log.Error("PlannerService", "persist failed, mutation rolled back", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	s.doc = next
	return nil
}

func (s *plannerService) publish(ev events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.TopicPlannerEvents, ev); err != nil {
		s.log.Warn("PlannerService", "event publish failed", map[string]interface{}{
			"event": ev.EventType(),
			"error": err.Error(),
		})
	}
}

// resolveDate turns relative terms (today, tomorrow, ...) into calendar
// dates and validates the result.
func (s *plannerService) resolveDate(raw string) (string, error) {
	resolved := timeutil.ResolveRelativeDate(raw, s.now().UTC())
	if _, err := timeutil.ParseDate(resolved); err != nil {
		return "", apperr.Validation("invalid date %q: expected YYYY-MM-DD or a relative term", raw)
	}
	return resolved, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (s *plannerService) AddDailyTask(ctx context.Context, req *dto.CreateDailyTaskRequest) (*entity.DailyTask, string, error) {
	if req.Name == "" {
		return nil, "", apperr.Validation("task name must not be empty")
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, "", err
	}

	candidate := entity.DailyTask{
		Name:          req.Name,
		BelongsToDay:  date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Description:   req.Description,
		CanReschedule: boolOr(req.CanReschedule, true),
		CanCompress:   boolOr(req.CanCompress, true),
		CanParallel:   boolOr(req.CanParallel, false),
		ParentTask:    req.ParentTask,
	}

	var stored entity.DailyTask
	var outcome string
	err = s.mutate(func(doc *entity.PlannerDocument) error {
		day := doc.DailySchedules[date]
		if day == nil {
			day = &entity.DaySchedule{
				Date:       date,
				WeekNumber: timeutil.WeekNumber(s.startDate, mustDate(date)),
			}
			doc.DailySchedules[date] = day
		}
		if day.FindTask(candidate.Name) >= 0 {
			return apperr.Validation("task %q already exists on %s", candidate.Name, date)
		}
		res, err := policy.Resolve(candidate, day.Tasks)
		if err != nil {
			return err
		}
		candidate.StartTime = res.StartTime
		candidate.EndTime = res.EndTime
		outcome = string(res.Outcome)
		day.Tasks = append(day.Tasks, candidate)
		day.SortTasks()
		stored = candidate
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info("PlannerService", "daily task added", map[string]interface{}{
		"name": stored.Name, "date": date, "outcome": outcome,
	})
	s.publish(events.DailyTaskEvent(events.TypeDailyTaskCreated, stored.Name, date))
	return &stored, outcome, nil
}

func (s *plannerService) UpdateDailyTask(ctx context.Context, req *dto.UpdateDailyTaskRequest) (*entity.DailyTask, string, error) {
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, "", err
	}

	var updated entity.DailyTask
	var outcome string
	err = s.mutate(func(doc *entity.PlannerDocument) error {
		day := doc.DailySchedules[date]
		if day == nil {
			return apperr.NotFound("no schedule for %s", date)
		}
		idx := day.FindTask(req.Name)
		if idx < 0 {
			return apperr.NotFound("task %q not found on %s", req.Name, date)
		}

		patched := day.Tasks[idx]
		if req.NewName != nil {
			if *req.NewName == "" {
				return apperr.Validation("task name must not be empty")
			}
			patched.Name = *req.NewName
		}
		if req.StartTime != nil {
			patched.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			patched.EndTime = *req.EndTime
		}
		if req.Description != nil {
			patched.Description = *req.Description
		}
		if req.CanReschedule != nil {
			patched.CanReschedule = *req.CanReschedule
		}
		if req.CanCompress != nil {
			patched.CanCompress = *req.CanCompress
		}
		if req.CanParallel != nil {
			patched.CanParallel = *req.CanParallel
		}
		if req.ParentTask != nil {
			patched.ParentTask = *req.ParentTask
		}

		// The patched task negotiates against its neighbours as if it
		// were being inserted fresh.
		rest := make([]entity.DailyTask, 0, len(day.Tasks)-1)
		rest = append(rest, day.Tasks[:idx]...)
		rest = append(rest, day.Tasks[idx+1:]...)
		if patched.Name != req.Name {
			for i := range rest {
				if rest[i].Name == patched.Name {
					return apperr.Validation("task %q already exists on %s", patched.Name, date)
				}
			}
		}
		res, err := policy.Resolve(patched, rest)
		if err != nil {
			return err
		}
		patched.StartTime = res.StartTime
		patched.EndTime = res.EndTime
		outcome = string(res.Outcome)

		day.Tasks = append(rest, patched)
		day.SortTasks()
		updated = patched
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info("PlannerService", "daily task updated", map[string]interface{}{
		"name": updated.Name, "date": date, "outcome": outcome,
	})
	s.publish(events.DailyTaskEvent(events.TypeDailyTaskUpdated, updated.Name, date))
	return &updated, outcome, nil
}

func (s *plannerService) RemoveDailyTask(ctx context.Context, req *dto.RemoveDailyTaskRequest) error {
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return err
	}
	err = s.mutate(func(doc *entity.PlannerDocument) error {
		day := doc.DailySchedules[date]
		if day == nil {
			return apperr.NotFound("no schedule for %s", date)
		}
		for i := range day.Tasks {
			if day.Tasks[i].Name == req.Name {
				day.Tasks = append(day.Tasks[:i], day.Tasks[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("task %q not found on %s", req.Name, date)
	})
	if err != nil {
		return err
	}
	s.log.Info("PlannerService", "daily task removed", map[string]interface{}{
		"name": req.Name, "date": date,
	})
	s.publish(events.DailyTaskEvent(events.TypeDailyTaskRemoved, req.Name, date))
	return nil
}

func (s *plannerService) AddWeeklyTask(ctx context.Context, req *dto.CreateWeeklyTaskRequest) (*entity.WeeklyTask, error) {
	if req.Name == "" {
		return nil, apperr.Validation("task name must not be empty")
	}
	if req.WeekNumber < 1 {
		return nil, apperr.Validation("week number must be >= 1, got %d", req.WeekNumber)
	}
	priority := entity.Priority(req.Priority)
	if req.Priority == "" {
		priority = entity.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Validation("unknown priority %q", req.Priority)
	}

	task := entity.WeeklyTask{
		Name:          req.Name,
		BelongsToWeek: req.WeekNumber,
		Description:   req.Description,
		ParentProject: req.ParentProject,
		Priority:      priority,
	}

	err := s.mutate(func(doc *entity.PlannerDocument) error {
		week := doc.WeeklySchedules[req.WeekNumber]
		if week == nil {
			week = &entity.WeekSchedule{
				WeekNumber: req.WeekNumber,
				DateRange:  timeutil.WeekDateRange(s.startDate, req.WeekNumber),
			}
			doc.WeeklySchedules[req.WeekNumber] = week
		}
		if week.FindTask(task.Name) >= 0 {
			return apperr.Validation("task %q already exists in week %d", task.Name, req.WeekNumber)
		}
		week.Tasks = append(week.Tasks, task)
		week.SortTasks()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("PlannerService", "weekly task added", map[string]interface{}{
		"name": task.Name, "week": req.WeekNumber, "priority": string(priority),
	})
	s.publish(events.WeeklyTaskEvent(events.TypeWeeklyTaskCreated, task.Name, req.WeekNumber))
	return &task, nil
}

func (s *plannerService) UpdateWeeklyTask(ctx context.Context, req *dto.UpdateWeeklyTaskRequest) (*entity.WeeklyTask, error) {
	var updated entity.WeeklyTask
	err := s.mutate(func(doc *entity.PlannerDocument) error {
		week := doc.WeeklySchedules[req.WeekNumber]
		if week == nil {
			return apperr.NotFound("no schedule for week %d", req.WeekNumber)
		}
		idx := week.FindTask(req.Name)
		if idx < 0 {
			return apperr.NotFound("task %q not found in week %d", req.Name, req.WeekNumber)
		}
		patched := week.Tasks[idx]
		if req.NewName != nil {
			if *req.NewName == "" {
				return apperr.Validation("task name must not be empty")
			}
			if *req.NewName != req.Name && week.FindTask(*req.NewName) >= 0 {
				return apperr.Validation("task %q already exists in week %d", *req.NewName, req.WeekNumber)
			}
			patched.Name = *req.NewName
		}
		if req.Description != nil {
			patched.Description = *req.Description
		}
		if req.ParentProject != nil {
			patched.ParentProject = *req.ParentProject
		}
		if req.Priority != nil {
			p := entity.Priority(*req.Priority)
			if !p.Valid() {
				return apperr.Validation("unknown priority %q", *req.Priority)
			}
			patched.Priority = p
		}
		week.Tasks[idx] = patched
		week.SortTasks()
		updated = patched
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("PlannerService", "weekly task updated", map[string]interface{}{
		"name": updated.Name, "week": req.WeekNumber,
	})
	s.publish(events.WeeklyTaskEvent(events.TypeWeeklyTaskUpdated, updated.Name, req.WeekNumber))
	return &updated, nil
}

func (s *plannerService) RemoveWeeklyTask(ctx context.Context, req *dto.RemoveWeeklyTaskRequest) error {
	err := s.mutate(func(doc *entity.PlannerDocument) error {
		week := doc.WeeklySchedules[req.WeekNumber]
		if week == nil {
			return apperr.NotFound("no schedule for week %d", req.WeekNumber)
		}
		for i := range week.Tasks {
			if week.Tasks[i].Name == req.Name {
				week.Tasks = append(week.Tasks[:i], week.Tasks[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("task %q not found in week %d", req.Name, req.WeekNumber)
	})
	if err != nil {
		return err
	}
	s.log.Info("PlannerService", "weekly task removed", map[string]interface{}{
		"name": req.Name, "week": req.WeekNumber,
	})
	s.publish(events.WeeklyTaskEvent(events.TypeWeeklyTaskRemoved, req.Name, req.WeekNumber))
	return nil
}

func (s *plannerService) GetDailySchedule(ctx context.Context, date string) (*entity.DaySchedule, error) {
	resolved, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if day := s.doc.DailySchedules[resolved]; day != nil {
		return day.Clone(), nil
	}
	// Reads never fail for a day nothing was planned on.
	return &entity.DaySchedule{
		Date:       resolved,
		WeekNumber: timeutil.WeekNumber(s.startDate, mustDate(resolved)),
		Tasks:      []entity.DailyTask{},
	}, nil
}

func (s *plannerService) GetWeeklySchedule(ctx context.Context, weekNumber int) (*entity.WeekSchedule, error) {
	if weekNumber < 1 {
		return nil, apperr.Validation("week number must be >= 1, got %d", weekNumber)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if week := s.doc.WeeklySchedules[weekNumber]; week != nil {
		return week.Clone(), nil
	}
	return &entity.WeekSchedule{
		WeekNumber: weekNumber,
		DateRange:  timeutil.WeekDateRange(s.startDate, weekNumber),
		Tasks:      []entity.WeeklyTask{},
	}, nil
}

func (s *plannerService) GetScheduleRange(ctx context.Context, startDate, endDate string) ([]*entity.DaySchedule, error) {
	from, err := s.resolveDate(startDate)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveDate(endDate)
	if err != nil {
		return nil, err
	}
	start, end := mustDate(from), mustDate(to)
	if end.Before(start) {
		return nil, apperr.Validation("end date %s is before start date %s", to, from)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxRangeDays {
		return nil, apperr.Validation("date range spans %d days, maximum is %d", days, maxRangeDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.DaySchedule
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(timeutil.DateLayout)
		if day := s.doc.DailySchedules[key]; day != nil {
			out = append(out, day.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *plannerService) GetStatistics(ctx context.Context) (*dto.PlannerStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &dto.PlannerStatistics{
		StartDate:            s.doc.StartDate,
		CurrentWeek:          timeutil.WeekNumber(s.startDate, s.now().UTC()),
		TotalDailySchedules:  len(s.doc.DailySchedules),
		TotalWeeklySchedules: len(s.doc.WeeklySchedules),
	}
	for _, day := range s.doc.DailySchedules {
		stats.TotalDailyTasks += len(day.Tasks)
	}
	for _, week := range s.doc.WeeklySchedules {
		stats.TotalWeeklyTasks += len(week.Tasks)
	}
	return stats, nil
}

func (s *plannerService) Export(ctx context.Context) (*entity.PlannerDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

// mustDate is only called on strings that already passed resolveDate.
func mustDate(date string) time.Time {
	t, err := timeutil.ParseDate(date)
	if err != nil {
		panic(fmt.Sprintf("unvalidated date %q: %v", date, err))
	}
	return t
}
