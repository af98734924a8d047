package dto

// PlannerStatistics summarises the planning document for the stats endpoint
// and for the model's schedule snapshot.
type PlannerStatistics struct {
	StartDate            string `json:"start_date"`
	CurrentWeek          int    `json:"current_week"`
	TotalDailySchedules  int    `json:"total_daily_schedules"`
	TotalWeeklySchedules int    `json:"total_weekly_schedules"`
	TotalDailyTasks      int    `json:"total_daily_tasks"`
	TotalWeeklyTasks     int    `json:"total_weekly_tasks"`
}
