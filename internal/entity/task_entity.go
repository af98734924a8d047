package entity

// Priority orders weekly tasks. Critical sorts first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank maps a priority onto a sortable ordinal, higher is more urgent.
// Unknown values rank below low so malformed input never jumps the queue.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// DailyTask is a task pinned to a single calendar date with a concrete
// time-of-day interval. The three flags tell the conflict policy what it
// may do with the interval: shift it later, shorten it, or overlap it.
type DailyTask struct {
	Name          string `json:"name"`
	BelongsToDay  string `json:"belongs_to_day"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Description   string `json:"description,omitempty"`
	CanReschedule bool   `json:"can_reschedule"`
	CanCompress   bool   `json:"can_compress"`
	CanParallel   bool   `json:"can_parallel"`
	// ParentTask labels which larger task this one was decomposed from.
	// Free text, not a foreign key.
	ParentTask string `json:"parent_task,omitempty"`
}

// Fixed reports whether the task may never be moved, shortened or
// overlapped. Fixed tasks always win conflicts.
func (t DailyTask) Fixed() bool {
	return !t.CanReschedule && !t.CanCompress && !t.CanParallel
}

// WeeklyTask is a task bound to a week bucket rather than a clock interval.
type WeeklyTask struct {
	Name          string   `json:"name"`
	BelongsToWeek int      `json:"belongs_to_week"`
	Description   string   `json:"description,omitempty"`
	ParentProject string   `json:"parent_project,omitempty"`
	Priority      Priority `json:"priority"`
}
