package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-planner-be/internal/constant"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/logger"
	"ai-planner-be/internal/pkg/timeutil"
	"ai-planner-be/internal/repository/memory"
	"ai-planner-be/pkg/events"
	"ai-planner-be/pkg/llm"
	"ai-planner-be/pkg/planner/extract"
	"ai-planner-be/pkg/store"
	"ai-planner-be/pkg/thinking"
)

// IChatService turns one user message into a model reply plus executed
// schedule actions. The flow is: record the message, assemble context,
// call the model, lift the JSON block, apply each task through the
// planner, record the reply.
type IChatService interface {
	SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	planner     IPlannerService
	memory      IMemoryService
	llmProvider llm.LLMProvider
	thinker     *thinking.Client // nil when the reasoning sidecar is off
	sessionRepo *memory.SessionRepository
	bus         *events.Bus
	log         logger.ILogger

	contextWindow int
}

func NewChatService(
	planner IPlannerService,
	memorySvc IMemoryService,
	llmProvider llm.LLMProvider,
	thinker *thinking.Client,
	sessionRepo *memory.SessionRepository,
	bus *events.Bus,
	log logger.ILogger,
	contextWindow int,
) IChatService {
	if contextWindow <= 0 {
		contextWindow = 20
	}
	return &chatService{
		planner:       planner,
		memory:        memorySvc,
		llmProvider:   llmProvider,
		thinker:       thinker,
		sessionRepo:   sessionRepo,
		bus:           bus,
		log:           log,
		contextWindow: contextWindow,
	}
}

func (cs *chatService) SendChat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}
	session, found := cs.sessionRepo.Get(sessionId)
	if !found {
		session = &store.Session{ID: sessionId}
	}

	if _, err := cs.memory.Record(ctx, entity.ChatRoleUser, request.Message); err != nil {
		return nil, err
	}

	systemPrompt := cs.buildSystemPrompt(ctx)
	if insight := cs.think(ctx, request.Message); insight != "" {
		systemPrompt += "\n\nPreliminary reasoning:\n" + insight
	}

	reply, err := cs.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: request.Message},
	})
	if err != nil {
		cs.log.Error("ChatService", "model call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	extraction := extract.Parse(reply)
	actions := cs.applyExtraction(ctx, &extraction)

	finalReply := extraction.Reply
	if finalReply == "" {
		finalReply = summarizeActions(actions)
	}

	if _, err := cs.memory.Record(ctx, entity.ChatRoleAssistant, finalReply); err != nil {
		cs.log.Warn("ChatService", "assistant reply not recorded", map[string]interface{}{
			"error": err.Error(),
		})
	}

	session.TurnCount++
	session.LastQuery = request.Message
	session.LastReply = finalReply
	cs.sessionRepo.Save(session)

	if cs.bus != nil {
		if err := cs.bus.Publish(events.TopicPlannerEvents, events.ChatReplyEvent(sessionId, finalReply)); err != nil {
			cs.log.Warn("ChatService", "reply event publish failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.ChatResponse{
		SessionId: sessionId,
		Reply:     finalReply,
		Actions:   actions,
	}, nil
}

// buildSystemPrompt stitches together the instruction block, the current
// time frame, what is known about the user, and a snapshot of today's
// schedule.
func (cs *chatService) buildSystemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(constant.PlannerSystemPrompt)

	now := time.Now().UTC()
	info := timeutil.InfoForDate(now)
	progress := timeutil.ProgressOfWeek(now)
	fmt.Fprintf(&b, "\n\nCurrent time frame:\n- date: %s (%s)\n- time: %s\n- planning week: %d\n- week progress: %.0f%%, %d day(s) left this week\n",
		info.Date, info.Weekday, now.Format(timeutil.ClockLayout), cs.planner.CurrentWeek(), progress.ProgressPercentage, progress.DaysRemaining)

	if memCtx := cs.memory.ContextForModel(ctx, cs.contextWindow); memCtx != "" {
		b.WriteString("\n")
		b.WriteString(memCtx)
	}

	if today, err := cs.planner.GetDailySchedule(ctx, "today"); err == nil && len(today.Tasks) > 0 {
		fmt.Fprintf(&b, "\nToday's schedule (%s):\n", today.Date)
		for _, t := range today.Tasks {
			fmt.Fprintf(&b, "- %s %s-%s %s\n", t.Name, t.StartTime, t.EndTime, flagNote(t))
		}
	}
	return b.String()
}

func flagNote(t entity.DailyTask) string {
	switch {
	case t.CanParallel:
		return "(parallel ok)"
	case t.Fixed():
		return "(fixed)"
	default:
		return ""
	}
}

// think walks the user request through the reasoning sidecar. Any failure
// degrades to answering without it.
func (cs *chatService) think(ctx context.Context, message string) string {
	if cs.thinker == nil {
		return ""
	}
	insight, err := cs.thinker.Step(ctx, "Plan how to schedule: "+message, 1, false)
	if err != nil {
		cs.log.Warn("ChatService", "reasoning sidecar unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	return insight
}

// applyExtraction pushes every extracted task through the planner. A task
// that fails validation or conflicts is reported, never fatal: the rest of
// the batch still lands.
func (cs *chatService) applyExtraction(ctx context.Context, ex *extract.Extraction) []dto.ActionReport {
	var reports []dto.ActionReport

	for i := range ex.DailyTasks {
		req := ex.DailyTasks[i]
		report := dto.ActionReport{Action: "add", Kind: "daily", Name: req.Name}
		stored, outcome, err := cs.planner.AddDailyTask(ctx, &req)
		if err != nil {
			report.Outcome = "failed"
			report.Detail = err.Error()
		} else {
			report.Outcome = outcome
			report.Detail = fmt.Sprintf("%s %s-%s", stored.BelongsToDay, stored.StartTime, stored.EndTime)
		}
		reports = append(reports, report)
	}

	for i := range ex.WeeklyTasks {
		req := ex.WeeklyTasks[i]
		if req.WeekNumber == 0 {
			req.WeekNumber = cs.planner.CurrentWeek()
		}
		report := dto.ActionReport{Action: "add", Kind: "weekly", Name: req.Name}
		stored, err := cs.planner.AddWeeklyTask(ctx, &req)
		if err != nil {
			report.Outcome = "failed"
			report.Detail = err.Error()
		} else {
			report.Outcome = "added"
			report.Detail = fmt.Sprintf("week %d, %s priority", stored.BelongsToWeek, stored.Priority)
		}
		reports = append(reports, report)
	}
	return reports
}

func summarizeActions(actions []dto.ActionReport) string {
	if len(actions) == 0 {
		return "Done."
	}
	var parts []string
	for _, a := range actions {
		if a.Outcome == "failed" {
			parts = append(parts, fmt.Sprintf("%q could not be scheduled: %s", a.Name, a.Detail))
		} else {
			parts = append(parts, fmt.Sprintf("%q scheduled (%s)", a.Name, a.Detail))
		}
	}
	return strings.Join(parts, " ")
}
