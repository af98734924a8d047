package entity

import (
	"time"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// Importance tiers a chat message for retention. Higher tiers survive
// compaction longer; critical is never summarized away.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

func (i Importance) Rank() int {
	switch i {
	case ImportanceCritical:
		return 4
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	default:
		return 0
	}
}

// ChatMessage is one entry of the conversation memory log.
type ChatMessage struct {
	Id         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Importance Importance `json:"importance"`
	Timestamp  time.Time  `json:"timestamp"`
	// Summary marks the synthetic message that replaced compacted history.
	Summary bool `json:"summary,omitempty"`
}

// UserProfile is the side-fact store extracted opportunistically from user
// messages. Last write wins; absent facts never erase present ones.
type UserProfile struct {
	Name        string   `json:"name,omitempty"`
	Age         int      `json:"age,omitempty"`
	Occupation  string   `json:"occupation,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// Merge overlays newer facts onto the profile without nulling fields the
// update does not carry.
func (p *UserProfile) Merge(update UserProfile) {
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.Age > 0 {
		p.Age = update.Age
	}
	if update.Occupation != "" {
		p.Occupation = update.Occupation
	}
	for _, pref := range update.Preferences {
		seen := false
		for _, existing := range p.Preferences {
			if existing == pref {
				seen = true
				break
			}
		}
		if !seen {
			p.Preferences = append(p.Preferences, pref)
		}
	}
}

// MemoryDocument is the persistence unit of the conversation memory:
// the ordered message log plus the derived profile, rewritten in full on
// every ingest.
type MemoryDocument struct {
	Messages    []ChatMessage `json:"messages"`
	UserProfile UserProfile   `json:"user_profile"`
	UpdatedAt   time.Time     `json:"last_updated"`
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{Messages: []ChatMessage{}}
}

func (d *MemoryDocument) Clone() *MemoryDocument {
	c := &MemoryDocument{
		UserProfile: d.UserProfile,
		UpdatedAt:   d.UpdatedAt,
	}
	c.Messages = append([]ChatMessage(nil), d.Messages...)
	c.UserProfile.Preferences = append([]string(nil), d.UserProfile.Preferences...)
	return c
}

func (d *MemoryDocument) Normalize() {
	if d.Messages == nil {
		d.Messages = []ChatMessage{}
	}
}
