package services

import (
	"context"
	"strings"
	"time"

	"dentalclinic/internal/bot"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ===========================================================================
// ChatBot Service
// Quản lý dữ liệu hỏi đáp và trả lời câu hỏi của khách
// ===========================================================================

var knowledgeEditors = []models.UserRole{models.RoleOwner, models.RoleReceptionist}

// KnowledgeInput dữ liệu một mục hỏi đáp
type KnowledgeInput struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Keywords []string `json:"keywords" validate:"dive,max=100"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Priority int      `json:"priority"`
}

// CreateKnowledgeCommand thêm mục hỏi đáp
type CreateKnowledgeCommand struct {
	KnowledgeInput
}

func (CreateKnowledgeCommand) AllowedRoles() []models.UserRole { return knowledgeEditors }

// UpdateKnowledgeCommand sửa mục hỏi đáp
type UpdateKnowledgeCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
	KnowledgeInput
}

func (UpdateKnowledgeCommand) AllowedRoles() []models.UserRole { return knowledgeEditors }

// ToggleKnowledgeCommand bật/tắt mục hỏi đáp
type ToggleKnowledgeCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleKnowledgeCommand) AllowedRoles() []models.UserRole { return knowledgeEditors }

// ListKnowledgeQuery danh sách mục hỏi đáp
type ListKnowledgeQuery struct {
	ListParams
}

func (ListKnowledgeQuery) AllowedRoles() []models.UserRole { return knowledgeEditors }

// AskChatBotQuery khách hỏi chatbot, không cần đăng nhập
type AskChatBotQuery struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// ChatBotAnswer câu trả lời của chatbot
type ChatBotAnswer struct {
	Answer      string     `json:"answer"`
	Matched     bool       `json:"matched"`
	KnowledgeID *uuid.UUID `json:"knowledge_id,omitempty"`
	Confidence  float64    `json:"confidence"`
}

// ChatBotService xử lý chatbot
type ChatBotService struct {
	base
	knowledge repositories.ChatBotKnowledgeRepository
	engine    bot.KnowledgeEngine
}

// NewChatBotService tạo ChatBotService
func NewChatBotService(knowledge repositories.ChatBotKnowledgeRepository, engine bot.KnowledgeEngine, logger *zap.Logger, loc *time.Location) *ChatBotService {
	if engine == nil {
		engine = bot.NewKnowledgeEngine(logger)
	}
	return &ChatBotService{
		base:      newBase(logger, loc),
		knowledge: knowledge,
		engine:    engine,
	}
}

func (s *ChatBotService) Create(ctx context.Context, cmd CreateKnowledgeCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item := &models.ChatBotKnowledge{
		Question: strings.TrimSpace(cmd.Question),
		Answer:   cmd.Answer,
		Keywords: cleanKeywords(cmd.Keywords),
		Category: cmd.Category,
		Priority: cmd.Priority,
		IsActive: true,
	}
	item.MarkCreated(p.UserID, s.now())
	if err := s.knowledge.Create(ctx, item); err != nil {
		return nil, err
	}
	return result(messages.CreateSuccess, &item.ID), nil
}

func (s *ChatBotService) Update(ctx context.Context, cmd UpdateKnowledgeCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := findLive[models.ChatBotKnowledge](ctx, s.knowledge, cmd.ID, messages.KnowledgeNotFound)
	if err != nil {
		return nil, err
	}
	item.Question = strings.TrimSpace(cmd.Question)
	item.Answer = cmd.Answer
	item.Keywords = cleanKeywords(cmd.Keywords)
	item.Category = cmd.Category
	item.Priority = cmd.Priority
	item.MarkUpdated(p.UserID, s.now())
	if err := s.knowledge.Update(ctx, item); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &item.ID), nil
}

func (s *ChatBotService) Toggle(ctx context.Context, cmd ToggleKnowledgeCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := findLive[models.ChatBotKnowledge](ctx, s.knowledge, cmd.ID, messages.KnowledgeNotFound)
	if err != nil {
		return nil, err
	}
	item.IsActive = !item.IsActive
	item.MarkUpdated(p.UserID, s.now())
	if err := s.knowledge.Update(ctx, item); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &item.ID), nil
}

func (s *ChatBotService) List(ctx context.Context, q ListKnowledgeQuery) (*PageResult[models.ChatBotKnowledge], error) {
	items, total, err := s.knowledge.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

// Ask không tìm được mục phù hợp thì trả câu trả lời mặc định
func (s *ChatBotService) Ask(ctx context.Context, q AskChatBotQuery) (*ChatBotAnswer, error) {
	items, err := s.knowledge.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	match := s.engine.Match(ctx, items, q.Question)
	if !match.Matched {
		return &ChatBotAnswer{Answer: messages.NoAnswer.Text()}, nil
	}
	return &ChatBotAnswer{
		Answer:      match.Knowledge.Answer,
		Matched:     true,
		KnowledgeID: &match.Knowledge.ID,
		Confidence:  match.Confidence,
	}, nil
}

func cleanKeywords(in []string) datatypes.JSONSlice[string] {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		key := bot.Normalize(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return datatypes.JSONSlice[string](out)
}

// RegisterChatBotHandlers đăng ký handler lên mediator
func RegisterChatBotHandlers(m *mediator.Mediator, s *ChatBotService) {
	mediator.Register[CreateKnowledgeCommand, *MessageResult](m, mediator.HandlerFunc[CreateKnowledgeCommand, *MessageResult](s.Create))
	mediator.Register[UpdateKnowledgeCommand, *MessageResult](m, mediator.HandlerFunc[UpdateKnowledgeCommand, *MessageResult](s.Update))
	mediator.Register[ToggleKnowledgeCommand, *MessageResult](m, mediator.HandlerFunc[ToggleKnowledgeCommand, *MessageResult](s.Toggle))
	mediator.Register[ListKnowledgeQuery, *PageResult[models.ChatBotKnowledge]](m, mediator.HandlerFunc[ListKnowledgeQuery, *PageResult[models.ChatBotKnowledge]](s.List))
	mediator.Register[AskChatBotQuery, *ChatBotAnswer](m, mediator.HandlerFunc[AskChatBotQuery, *ChatBotAnswer](s.Ask))
}
