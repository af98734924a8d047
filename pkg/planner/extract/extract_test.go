package extract

import (
	"testing"
)

func TestParseFencedBlock(t *testing.T) {
	reply := "Sure, I scheduled it.\n```json\n{\"daily_schedule\":[{\"name\":\"Study math\",\"date\":\"2025-07-16\",\"start_time\":\"14:00\",\"end_time\":\"16:00\",\"can_reschedule\":false}]}\n```\nAnything else?"

	got := Parse(reply)
	if len(got.DailyTasks) != 1 {
		t.Fatalf("DailyTasks = %d, want 1", len(got.DailyTasks))
	}
	task := got.DailyTasks[0]
	if task.Name != "Study math" || task.Date != "2025-07-16" {
		t.Errorf("task = %+v", task)
	}
	if task.StartTime != "14:00" || task.EndTime != "16:00" {
		t.Errorf("interval = %s-%s, want 14:00-16:00", task.StartTime, task.EndTime)
	}
	if task.CanReschedule == nil || *task.CanReschedule {
		t.Errorf("CanReschedule = %v, want false", task.CanReschedule)
	}
	if task.CanCompress != nil || task.CanParallel != nil {
		t.Errorf("absent flags should stay nil, got compress=%v parallel=%v", task.CanCompress, task.CanParallel)
	}
	if got.Reply != "Sure, I scheduled it.\n\nAnything else?" {
		t.Errorf("Reply = %q, want block stripped", got.Reply)
	}
}

func TestParseWholeReplyJSON(t *testing.T) {
	reply := `{"weekly_schedule":[{"name":"Finish thesis draft","week_number":3,"priority":"high","parent_project":"Thesis"}]}`

	got := Parse(reply)
	if len(got.WeeklyTasks) != 1 {
		t.Fatalf("WeeklyTasks = %d, want 1", len(got.WeeklyTasks))
	}
	task := got.WeeklyTasks[0]
	if task.Name != "Finish thesis draft" || task.WeekNumber != 3 || task.Priority != "high" {
		t.Errorf("task = %+v", task)
	}
}

func TestParseLegacyFieldNames(t *testing.T) {
	reply := "```json\n{\"daily_schedule\":[{\"task_name\":\"Lunch\",\"belong_to_day\":\"today\",\"start_time\":\"12:00\",\"end_time\":\"13:00\"}],\"weekly_schedule\":[{\"task_name\":\"Plan sprint\",\"belong_to_week\":2}]}\n```"

	got := Parse(reply)
	if len(got.DailyTasks) != 1 || got.DailyTasks[0].Name != "Lunch" || got.DailyTasks[0].Date != "today" {
		t.Fatalf("DailyTasks = %+v", got.DailyTasks)
	}
	if len(got.WeeklyTasks) != 1 || got.WeeklyTasks[0].WeekNumber != 2 {
		t.Fatalf("WeeklyTasks = %+v", got.WeeklyTasks)
	}
}

func TestParseUnknownListKey(t *testing.T) {
	reply := "```json\n{\"tasks\":[{\"task_name\":\"Morning run\",\"start_time\":\"07:00\",\"end_time\":\"08:00\"},{\"task_name\":\"Read paper\"}]}\n```"

	got := Parse(reply)
	if len(got.DailyTasks) != 1 || got.DailyTasks[0].Name != "Morning run" {
		t.Fatalf("DailyTasks = %+v", got.DailyTasks)
	}
	if got.DailyTasks[0].Date != "today" {
		t.Errorf("Date = %q, want default today", got.DailyTasks[0].Date)
	}
	if len(got.WeeklyTasks) != 1 || got.WeeklyTasks[0].Name != "Read paper" {
		t.Fatalf("WeeklyTasks = %+v", got.WeeklyTasks)
	}
}

func TestParseEmbeddedObject(t *testing.T) {
	reply := `Here you go: {"daily_schedule":[{"name":"Call mom","date":"tomorrow","start_time":"18:00","end_time":"18:30"}]} done.`

	got := Parse(reply)
	if len(got.DailyTasks) != 1 || got.DailyTasks[0].Name != "Call mom" {
		t.Fatalf("DailyTasks = %+v", got.DailyTasks)
	}
}

func TestParsePlainChat(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json at all", "You have nothing scheduled tomorrow."},
		{"brace in prose", "Use {curly braces} carefully."},
		{"json without tasks", "```json\n{\"note\":\"nothing to do\"}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)
			if !got.Empty() {
				t.Errorf("Parse(%q) found tasks: %+v %+v", tt.reply, got.DailyTasks, got.WeeklyTasks)
			}
		})
	}
}

func TestParseMalformedJSONIsIgnored(t *testing.T) {
	reply := "```json\n{\"daily_schedule\":[{\"name\":\"Broken\"\n```"
	got := Parse(reply)
	if !got.Empty() {
		t.Errorf("malformed block should yield no tasks, got %+v", got.DailyTasks)
	}
	if got.Reply == "" {
		t.Error("Reply should keep the original text")
	}
}
