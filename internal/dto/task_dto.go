package dto

// CreateDailyTaskRequest carries the fields of a new date-pinned task.
// Flag fields are pointers so the model's structured output may omit them:
// absent means "use default" (reschedule/compress allowed, parallel not),
// never an error.
type CreateDailyTaskRequest struct {
	Name          string `json:"name" validate:"required"`
	Date          string `json:"date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	Description   string `json:"description,omitempty"`
	CanReschedule *bool  `json:"can_reschedule,omitempty"`
	CanCompress   *bool  `json:"can_compress,omitempty"`
	CanParallel   *bool  `json:"can_parallel,omitempty"`
	ParentTask    string `json:"parent_task,omitempty"`
}

// UpdateDailyTaskRequest patches the task identified by Name within Date.
// Nil fields stay untouched.
type UpdateDailyTaskRequest struct {
	Name          string  `json:"name" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	NewName       *string `json:"new_name,omitempty"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	Description   *string `json:"description,omitempty"`
	CanReschedule *bool   `json:"can_reschedule,omitempty"`
	CanCompress   *bool   `json:"can_compress,omitempty"`
	CanParallel   *bool   `json:"can_parallel,omitempty"`
	ParentTask    *string `json:"parent_task,omitempty"`
}

type CreateWeeklyTaskRequest struct {
	Name          string `json:"name" validate:"required"`
	WeekNumber    int    `json:"week_number" validate:"required,min=1"`
	Description   string `json:"description,omitempty"`
	ParentProject string `json:"parent_project,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

type UpdateWeeklyTaskRequest struct {
	Name          string  `json:"name" validate:"required"`
	WeekNumber    int     `json:"week_number" validate:"required,min=1"`
	NewName       *string `json:"new_name,omitempty"`
	Description   *string `json:"description,omitempty"`
	ParentProject *string `json:"parent_project,omitempty"`
	Priority      *string `json:"priority,omitempty"`
}

type RemoveDailyTaskRequest struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"required"`
}

type RemoveWeeklyTaskRequest struct {
	Name       string `json:"name" validate:"required"`
	WeekNumber int    `json:"week_number" validate:"required,min=1"`
}
