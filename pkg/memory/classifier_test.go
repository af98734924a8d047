package memory

import (
	"testing"

	"ai-planner-be/internal/entity"
)

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name    string
		role    string
		content string
		want    entity.Importance
	}{
		{"identity fact is critical", entity.ChatRoleUser, "My name is Alice and I study physics", entity.ImportanceCritical},
		{"age fact is critical", entity.ChatRoleUser, "I am 25 years old", entity.ImportanceCritical},
		{"scheduling verb is high", entity.ChatRoleUser, "Please schedule a meeting at 3pm", entity.ImportanceHigh},
		{"removal verb is high", entity.ChatRoleUser, "Cancel my dentist appointment", entity.ImportanceHigh},
		{"query verb is medium", entity.ChatRoleUser, "Show me what I have on Friday", entity.ImportanceMedium},
		{"small talk is low", entity.ChatRoleUser, "thanks!", entity.ImportanceLow},
		{"greeting is low", entity.ChatRoleAssistant, "Happy to help anytime.", entity.ImportanceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.role, tt.content); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.content, got, tt.want)
			}
		})
	}
}

func TestKeywordClassifierLongMessage(t *testing.T) {
	c := NewKeywordClassifier()
	long := ""
	for i := 0; i < 30; i++ {
		long += "some detail, "
	}
	if got := c.Classify(entity.ChatRoleUser, long); got != entity.ImportanceMedium {
		t.Errorf("long message = %s, want medium", got)
	}
}

func TestExtractProfile(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantName       string
		wantAge        int
		wantOccupation string
		wantPrefs      []string
	}{
		{
			name:     "name",
			content:  "Hi, my name is Alice.",
			wantName: "Alice",
		},
		{
			name:    "age",
			content: "I am 25 years old",
			wantAge: 25,
		},
		{
			name:           "occupation",
			content:        "I work as a software engineer, mostly backend.",
			wantOccupation: "software engineer",
		},
		{
			name:      "preference",
			content:   "I like morning workouts and I prefer short meetings",
			wantPrefs: []string{"morning workouts", "short meetings"},
		},
		{
			name:     "indirect phrasing taken literally",
			content:  "my name is what you want it to be?",
			wantName: "what you want it to be",
		},
		{
			name:    "no facts",
			content: "Put lunch at noon please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractProfile(tt.content)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Age != tt.wantAge {
				t.Errorf("Age = %d, want %d", got.Age, tt.wantAge)
			}
			if got.Occupation != tt.wantOccupation {
				t.Errorf("Occupation = %q, want %q", got.Occupation, tt.wantOccupation)
			}
			if len(got.Preferences) != len(tt.wantPrefs) {
				t.Fatalf("Preferences = %v, want %v", got.Preferences, tt.wantPrefs)
			}
			for i := range tt.wantPrefs {
				if got.Preferences[i] != tt.wantPrefs[i] {
					t.Errorf("Preferences[%d] = %q, want %q", i, got.Preferences[i], tt.wantPrefs[i])
				}
			}
		})
	}
}
