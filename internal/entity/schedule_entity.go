package entity

import (
	"sort"
)

// DaySchedule holds every daily task pinned to one date, kept sorted by
// start time ascending (insertion order breaks ties).
type DaySchedule struct {
	Date       string      `json:"date"`
	WeekNumber int         `json:"week_number"`
	Tasks      []DailyTask `json:"tasks"`
}

// SortTasks re-establishes the start-time ordering. The sort is stable so
// equal start times keep insertion order.
func (s *DaySchedule) SortTasks() {
	sort.SliceStable(s.Tasks, func(i, j int) bool {
		return s.Tasks[i].StartTime < s.Tasks[j].StartTime
	})
}

// FindTask returns the index of the task with the given name, or -1.
func (s *DaySchedule) FindTask(name string) int {
	for i, t := range s.Tasks {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (s *DaySchedule) Clone() *DaySchedule {
	if s == nil {
		return nil
	}
	c := &DaySchedule{Date: s.Date, WeekNumber: s.WeekNumber}
	c.Tasks = append([]DailyTask(nil), s.Tasks...)
	return c
}

// WeekSchedule holds every weekly task in one week bucket, kept sorted by
// priority descending (insertion order breaks ties).
type WeekSchedule struct {
	WeekNumber int          `json:"week_number"`
	DateRange  string       `json:"date_range"`
	Tasks      []WeeklyTask `json:"tasks"`
}

func (s *WeekSchedule) SortTasks() {
	sort.SliceStable(s.Tasks, func(i, j int) bool {
		return s.Tasks[i].Priority.Rank() > s.Tasks[j].Priority.Rank()
	})
}

func (s *WeekSchedule) FindTask(name string) int {
	for i, t := range s.Tasks {
		if t.Name == name {
			return i
		}
	}
	return -1
}

func (s *WeekSchedule) Clone() *WeekSchedule {
	if s == nil {
		return nil
	}
	c := &WeekSchedule{WeekNumber: s.WeekNumber, DateRange: s.DateRange}
	c.Tasks = append([]WeeklyTask(nil), s.Tasks...)
	return c
}

// PlannerDocument is the root persistence unit: the whole planner state is
// loaded at startup and rewritten in full after every mutation. StartDate
// is the epoch week numbers are counted from and never changes once set.
type PlannerDocument struct {
	StartDate       string                  `json:"start_date"`
	DailySchedules  map[string]*DaySchedule `json:"daily_schedules"`
	WeeklySchedules map[int]*WeekSchedule   `json:"weekly_schedules"`
}

func NewPlannerDocument(startDate string) *PlannerDocument {
	return &PlannerDocument{
		StartDate:       startDate,
		DailySchedules:  map[string]*DaySchedule{},
		WeeklySchedules: map[int]*WeekSchedule{},
	}
}

// Clone deep-copies the document. Mutations operate on a clone so a failed
// persist never leaves half-applied state behind.
func (d *PlannerDocument) Clone() *PlannerDocument {
	c := NewPlannerDocument(d.StartDate)
	for date, s := range d.DailySchedules {
		c.DailySchedules[date] = s.Clone()
	}
	for week, s := range d.WeeklySchedules {
		c.WeeklySchedules[week] = s.Clone()
	}
	return c
}

// Normalize repairs zero-value maps after JSON decoding.
func (d *PlannerDocument) Normalize() {
	if d.DailySchedules == nil {
		d.DailySchedules = map[string]*DaySchedule{}
	}
	if d.WeeklySchedules == nil {
		d.WeeklySchedules = map[int]*WeekSchedule{}
	}
}
