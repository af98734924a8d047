package memory

import (
	"regexp"
	"strings"

	"ai-planner-be/internal/entity"
)

// Classifier assigns an importance level to an incoming message. The level
// decides how long the message survives compaction.
type Classifier interface {
	Classify(role string, content string) entity.Importance
}

// KeywordClassifier ranks messages by scanning for scheduling verbs and
// query verbs. Long messages float to medium because they usually carry
// task details worth keeping.
type KeywordClassifier struct{}

var (
	highKeywords = []string{
		"create", "add", "schedule", "delete", "remove", "cancel",
		"move", "reschedule", "update", "change", "appointment",
		"meeting", "deadline", "task",
	}
	mediumKeywords = []string{
		"show", "list", "view", "check", "free", "available",
		"conflict", "when", "what time",
	}
	profileKeywords = []string{
		"my name is", "i am called", "call me", "years old",
		"i work as", "my job", "i like", "i prefer", "i love", "i hate",
	}
)

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(role string, content string) entity.Importance {
	lower := strings.ToLower(content)

	// Who the user is must never be forgotten.
	for _, kw := range profileKeywords {
		if strings.Contains(lower, kw) {
			return entity.ImportanceCritical
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return entity.ImportanceHigh
		}
	}
	for _, kw := range mediumKeywords {
		if strings.Contains(lower, kw) {
			return entity.ImportanceMedium
		}
	}
	if len(content) > 200 {
		return entity.ImportanceMedium
	}
	return entity.ImportanceLow
}

// Profile extraction runs over user messages only. Each pattern's first
// capture group is the value; matches are trimmed and question-like
// fragments rejected.
var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmy name is ([a-z][a-z' -]{1,40})`),
		regexp.MustCompile(`(?i)\bi am called ([a-z][a-z' -]{1,40})`),
		regexp.MustCompile(`(?i)\bcall me ([a-z][a-z' -]{1,40})`),
	}
	agePattern        = regexp.MustCompile(`(?i)\bi(?:'m| am)? (\d{1,3}) years old\b`)
	occupationPattern = regexp.MustCompile(`(?i)\bi (?:work as|am) an? ([a-z][a-z -]{1,40})`)
	preferencePattern = regexp.MustCompile(`(?i)\bi (?:like|love|prefer) ([a-z][a-z0-9' -]{1,60})`)
)

// ExtractProfile pulls identity facts out of one user message. Returned
// fields are zero-valued when nothing matched, so callers can merge the
// result without clobbering known data.
func ExtractProfile(content string) entity.UserProfile {
	var p entity.UserProfile

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(content); m != nil {
			name := cleanFragment(m[1])
			if name != "" {
				p.Name = name
				break
			}
		}
	}
	if m := agePattern.FindStringSubmatch(content); m != nil {
		p.Age = parseAge(m[1])
	}
	if m := occupationPattern.FindStringSubmatch(content); m != nil {
		job := cleanFragment(m[1])
		if job != "" && parseAge(job) == 0 {
			p.Occupation = job
		}
	}
	for _, clause := range splitClauses(content) {
		if m := preferencePattern.FindStringSubmatch(clause); m != nil {
			if pref := cleanFragment(m[1]); pref != "" {
				p.Preferences = append(p.Preferences, pref)
			}
		}
	}
	return p
}

// splitClauses breaks a message at punctuation and conjunctions so each
// stated preference is matched on its own.
func splitClauses(s string) []string {
	seps := []string{",", ".", ";", "!", "?", " and ", " but "}
	clauses := []string{s}
	for _, sep := range seps {
		var next []string
		for _, c := range clauses {
			next = append(next, strings.Split(c, sep)...)
		}
		clauses = next
	}
	return clauses
}

func cleanFragment(s string) string {
	s = strings.TrimSpace(s)
	// Cut at sentence boundaries the regex may have swallowed.
	for _, stop := range []string{",", ".", "?", "!", " and ", " but "} {
		if i := strings.Index(s, stop); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "?") {
		return ""
	}
	return s
}

func parseAge(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 || n > 130 {
		return 0
	}
	return n
}
