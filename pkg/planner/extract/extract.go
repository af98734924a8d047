// Package extract lifts schedule instructions out of free-form model
// replies. The model is asked for one fenced JSON block, but replies from
// smaller models drift, so extraction is tolerant: fenced block first,
// then any raw JSON object found in the text, then nothing.
package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"ai-planner-be/internal/dto"
)

// Extraction is the machine-readable half of a model reply. Reply is the
// text with the JSON block stripped, suitable for showing to the user.
type Extraction struct {
	Reply       string
	DailyTasks  []dto.CreateDailyTaskRequest
	WeeklyTasks []dto.CreateWeeklyTaskRequest
}

func (e *Extraction) Empty() bool {
	return len(e.DailyTasks) == 0 && len(e.WeeklyTasks) == 0
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Parse scans a model reply for schedule instructions.
func Parse(reply string) Extraction {
	out := Extraction{Reply: strings.TrimSpace(reply)}

	raw, stripped := findJSON(reply)
	if raw == "" {
		return out
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return out
	}

	out.Reply = strings.TrimSpace(stripped)
	out.DailyTasks = parseDaily(doc.Get("daily_schedule"))
	out.WeeklyTasks = parseWeekly(doc.Get("weekly_schedule"))

	// Older replies put task lists under arbitrary keys; route them by
	// whether entries carry a time window.
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if k == "daily_schedule" || k == "weekly_schedule" || !value.IsArray() {
			return true
		}
		for _, item := range value.Array() {
			if !item.IsObject() || taskName(item) == "" {
				continue
			}
			if item.Get("start_time").Exists() && item.Get("end_time").Exists() {
				out.DailyTasks = append(out.DailyTasks, dailyFromResult(item))
			} else {
				out.WeeklyTasks = append(out.WeeklyTasks, weeklyFromResult(item))
			}
		}
		return true
	})
	return out
}

// findJSON returns the JSON payload and the reply text without it.
func findJSON(reply string) (raw, stripped string) {
	if m := fencedJSON.FindStringSubmatchIndex(reply); m != nil {
		raw = reply[m[2]:m[3]]
		stripped = reply[:m[0]] + reply[m[1]:]
		return raw, stripped
	}
	// Whole-reply JSON, as produced under response_format json_object.
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		return trimmed, ""
	}
	// Last resort: first balanced object embedded in prose.
	if start := strings.Index(reply, "{"); start >= 0 {
		if end := matchBrace(reply, start); end > start {
			candidate := reply[start : end+1]
			if gjson.Valid(candidate) && gjson.Parse(candidate).IsObject() {
				return candidate, reply[:start] + reply[end+1:]
			}
		}
	}
	return "", reply
}

func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func taskName(item gjson.Result) string {
	if v := item.Get("name"); v.Exists() {
		return v.String()
	}
	return item.Get("task_name").String()
}

func parseDaily(list gjson.Result) []dto.CreateDailyTaskRequest {
	if !list.IsArray() {
		return nil
	}
	var out []dto.CreateDailyTaskRequest
	for _, item := range list.Array() {
		if !item.IsObject() || taskName(item) == "" {
			continue
		}
		out = append(out, dailyFromResult(item))
	}
	return out
}

func dailyFromResult(item gjson.Result) dto.CreateDailyTaskRequest {
	req := dto.CreateDailyTaskRequest{
		Name:        taskName(item),
		Date:        firstString(item, "date", "belongs_to_day", "belong_to_day"),
		StartTime:   item.Get("start_time").String(),
		EndTime:     item.Get("end_time").String(),
		Description: item.Get("description").String(),
		ParentTask:  item.Get("parent_task").String(),
	}
	if req.Date == "" {
		req.Date = "today"
	}
	req.CanReschedule = optionalBool(item, "can_reschedule")
	req.CanCompress = optionalBool(item, "can_compress")
	req.CanParallel = optionalBool(item, "can_parallel")
	return req
}

func parseWeekly(list gjson.Result) []dto.CreateWeeklyTaskRequest {
	if !list.IsArray() {
		return nil
	}
	var out []dto.CreateWeeklyTaskRequest
	for _, item := range list.Array() {
		if !item.IsObject() || taskName(item) == "" {
			continue
		}
		out = append(out, weeklyFromResult(item))
	}
	return out
}

func weeklyFromResult(item gjson.Result) dto.CreateWeeklyTaskRequest {
	week := item.Get("week_number")
	if !week.Exists() {
		week = item.Get("belongs_to_week")
	}
	if !week.Exists() {
		week = item.Get("belong_to_week")
	}
	return dto.CreateWeeklyTaskRequest{
		Name:          taskName(item),
		WeekNumber:    int(week.Int()),
		Description:   item.Get("description").String(),
		ParentProject: item.Get("parent_project").String(),
		Priority:      item.Get("priority").String(),
	}
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func optionalBool(item gjson.Result, key string) *bool {
	v := item.Get(key)
	if !v.Exists() {
		return nil
	}
	b := v.Bool()
	return &b
}
