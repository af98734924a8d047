package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/repository/contract"
	"ai-planner-be/pkg/memory"
)

// IMemoryService is the bounded conversation log. Every ingest classifies,
// compacts when over the threshold, and persists before the message counts
// as recorded.
type IMemoryService interface {
	Record(ctx context.Context, role, content string) (*entity.ChatMessage, error)
	RecentContext(ctx context.Context, max int) []entity.ChatMessage
	ContextForModel(ctx context.Context, max int) string
	SearchHistory(ctx context.Context, keyword string, limit int) []entity.ChatMessage
	Profile(ctx context.Context) entity.UserProfile
	Stats(ctx context.Context) *dto.MemoryStats
	ClearSession(ctx context.Context) error
}

type MemoryOptions struct {
	RecentWindow     int
	MaxMessages      int
	SummaryThreshold int
}

type memoryService struct {
	repo       contract.MemoryRepository
	classifier memory.Classifier
	log        logger.ILogger
	opts       MemoryOptions
	now        func() time.Time

	mu  sync.Mutex
	doc *entity.MemoryDocument
}

func NewMemoryService(repo contract.MemoryRepository, classifier memory.Classifier, log logger.ILogger, opts MemoryOptions) (IMemoryService, error) {
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = 20
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 100
	}
	if opts.SummaryThreshold <= 0 {
		opts.SummaryThreshold = 40
	}
	s := &memoryService{
		repo:       repo,
		classifier: classifier,
		log:        log,
		opts:       opts,
		now:        time.Now,
	}
	doc, err := repo.Load()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = entity.NewMemoryDocument()
	}
	s.doc = doc
	log.Info("MemoryService", "conversation memory restored", map[string]interface{}{
		"messages": len(doc.Messages),
	})
	return s, nil
}

func (s *memoryService) Record(ctx context.Context, role, content string) (*entity.ChatMessage, error) {
	if content == "" {
		return nil, apperr.Validation("message content must not be empty")
	}
	switch role {
	case entity.ChatRoleUser, entity.ChatRoleAssistant, entity.ChatRoleSystem:
	default:
		return nil, apperr.Validation("unknown chat role %q", role)
	}

	msg := entity.ChatMessage{
		Id:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Importance: s.classifier.Classify(role, content),
		Timestamp:  s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	next.Messages = append(next.Messages, msg)
	if role == entity.ChatRoleUser {
		next.UserProfile.Merge(memory.ExtractProfile(content))
	}
	s.compact(next)
	next.UpdatedAt = msg.Timestamp

	if err := s.repo.Save(next); err != nil {
		s.log.Error("MemoryService", "persist failed, message dropped", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	s.doc = next
	return &msg, nil
}

// compact keeps the document bounded: past the threshold, old
// low-importance traffic folds into one synthetic summary message, and
// past the hard ceiling the oldest messages are evicted, least
// important first.
func (s *memoryService) compact(doc *entity.MemoryDocument) {
	if len(doc.Messages) <= s.opts.SummaryThreshold {
		return
	}

	cut := len(doc.Messages) - s.opts.RecentWindow
	if cut < 0 {
		cut = 0
	}
	old, recent := doc.Messages[:cut], doc.Messages[cut:]

	var kept []entity.ChatMessage
	var folded []string
	for _, m := range old {
		if m.Importance.Rank() >= entity.ImportanceHigh.Rank() || m.Summary {
			kept = append(kept, m)
			continue
		}
		line := fmt.Sprintf("%s: %s", m.Role, truncate(m.Content, 80))
		folded = append(folded, line)
	}

	if len(folded) > 0 {
		summary := entity.ChatMessage{
			Id:         uuid.NewString(),
			Role:       entity.ChatRoleSystem,
			Content:    constant.MemorySummaryPrefix + strings.Join(lastN(folded, 10), "; "),
			Importance: entity.ImportanceHigh,
			Timestamp:  s.now().UTC(),
			Summary:    true,
		}
		kept = append(kept, summary)
	}

	doc.Messages = append(kept, recent...)

	// Hard ceiling: drop oldest non-critical survivors first. When critical
	// traffic alone still exceeds the cap, the oldest messages go too; the
	// ceiling holds regardless of importance.
	if len(doc.Messages) > s.opts.MaxMessages {
		overflow := len(doc.Messages) - s.opts.MaxMessages
		pruned := make([]entity.ChatMessage, 0, s.opts.MaxMessages)
		for _, m := range doc.Messages {
			if overflow > 0 && m.Importance != entity.ImportanceCritical && !m.Summary {
				overflow--
				continue
			}
			pruned = append(pruned, m)
		}
		if len(pruned) > s.opts.MaxMessages {
			pruned = pruned[len(pruned)-s.opts.MaxMessages:]
		}
		doc.Messages = pruned
	}

	sort.SliceStable(doc.Messages, func(i, j int) bool {
		return doc.Messages[i].Timestamp.Before(doc.Messages[j].Timestamp)
	})
}

func (s *memoryService) RecentContext(ctx context.Context, max int) []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max <= 0 || max > len(s.doc.Messages) {
		max = len(s.doc.Messages)
	}
	out := make([]entity.ChatMessage, max)
	copy(out, s.doc.Messages[len(s.doc.Messages)-max:])
	return out
}

// ContextForModel renders the recent log plus the user profile as a text
// block for the system prompt.
func (s *memoryService) ContextForModel(ctx context.Context, max int) string {
	if max <= 0 {
		max = s.opts.RecentWindow
	}
	s.mu.Lock()
	profile := s.doc.UserProfile
	profile.Preferences = append([]string(nil), s.doc.UserProfile.Preferences...)
	n := len(s.doc.Messages)
	if max > n {
		max = n
	}
	recent := make([]entity.ChatMessage, max)
	copy(recent, s.doc.Messages[n-max:])
	s.mu.Unlock()

	var b strings.Builder
	if profile.Name != "" || profile.Age > 0 || profile.Occupation != "" || len(profile.Preferences) > 0 {
		b.WriteString("Known about the user:\n")
		if profile.Name != "" {
			fmt.Fprintf(&b, "- name: %s\n", profile.Name)
		}
		if profile.Age > 0 {
			fmt.Fprintf(&b, "- age: %d\n", profile.Age)
		}
		if profile.Occupation != "" {
			fmt.Fprintf(&b, "- occupation: %s\n", profile.Occupation)
		}
		if len(profile.Preferences) > 0 {
			fmt.Fprintf(&b, "- preferences: %s\n", strings.Join(profile.Preferences, ", "))
		}
	}
	if len(recent) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "[%s] %s: %s\n", m.Timestamp.Format("15:04"), m.Role, m.Content)
		}
	}
	return b.String()
}

func (s *memoryService) SearchHistory(ctx context.Context, keyword string, limit int) []entity.ChatMessage {
	if limit <= 0 {
		limit = 5
	}
	needle := strings.ToLower(keyword)

	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []entity.ChatMessage
	for i := len(s.doc.Messages) - 1; i >= 0 && len(matches) < limit; i-- {
		if strings.Contains(strings.ToLower(s.doc.Messages[i].Content), needle) {
			matches = append(matches, s.doc.Messages[i])
		}
	}
	return matches
}

func (s *memoryService) Profile(ctx context.Context) entity.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.doc.UserProfile
	p.Preferences = append([]string(nil), s.doc.UserProfile.Preferences...)
	return p
}

func (s *memoryService) Stats(ctx context.Context) *dto.MemoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &dto.MemoryStats{
		TotalMessages:    len(s.doc.Messages),
		ProfileKnownName: s.doc.UserProfile.Name != "",
	}
	for _, m := range s.doc.Messages {
		if m.Summary {
			stats.SummaryMessages++
		}
		if m.Importance.Rank() >= entity.ImportanceHigh.Rank() {
			stats.HighImportance++
		}
	}
	if len(s.doc.Messages) > 0 {
		stats.OldestMessageTime = s.doc.Messages[0].Timestamp.Format(time.RFC3339)
		stats.NewestMessageTime = s.doc.Messages[len(s.doc.Messages)-1].Timestamp.Format(time.RFC3339)
	}
	return stats
}

// ClearSession drops everything except critical messages, mirroring a
// fresh conversation without forgetting who the user is.
func (s *memoryService) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	var kept []entity.ChatMessage
	for _, m := range next.Messages {
		if m.Importance == entity.ImportanceCritical {
			kept = append(kept, m)
		}
	}
	removed := len(next.Messages) - len(kept)
	next.Messages = kept
	if next.Messages == nil {
		next.Messages = []entity.ChatMessage{}
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(next); err != nil {
		return err
	}
	s.doc = next
	s.log.Info("MemoryService", "session cleared", map[string]interface{}{
		"removed": removed, "kept": len(kept),
	})
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func lastN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
