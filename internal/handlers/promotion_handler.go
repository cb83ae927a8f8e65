package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// Promotion, ChatBot & Transaction Handler
// ===========================================================================

type PromotionHandler struct {
	mediator *mediator.Mediator
}

func NewPromotionHandler(m *mediator.Mediator) *PromotionHandler {
	return &PromotionHandler{mediator: m}
}

// Create POST /api/v1/promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	var cmd services.CreatePromotionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// Toggle PATCH /api/v1/promotions/:id/toggle
func (h *PromotionHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.TogglePromotionCommand{ID: id}, http.StatusOK)
}

// List GET /api/v1/promotions, khách vãng lai cũng xem được
func (h *PromotionHandler) List(c *gin.Context) {
	var q services.ListPromotionsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListPromotionsQuery, models.Promotion](c, h.mediator, q)
}

func (h *PromotionHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/promotions", h.List)

	p := protected.Group("/promotions")
	{
		p.POST("", h.Create)
		p.PATCH("/:id/toggle", h.Toggle)
	}
}

type ChatBotHandler struct {
	mediator *mediator.Mediator
}

func NewChatBotHandler(m *mediator.Mediator) *ChatBotHandler {
	return &ChatBotHandler{mediator: m}
}

// Ask POST /api/v1/chatbot/ask
func (h *ChatBotHandler) Ask(c *gin.Context) {
	var q services.AskChatBotQuery
	if !bindJSON(c, &q) {
		return
	}
	dispatch[services.AskChatBotQuery, *services.ChatBotAnswer](c, h.mediator, q, http.StatusOK)
}

func (h *ChatBotHandler) Create(c *gin.Context) {
	var cmd services.CreateKnowledgeCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

func (h *ChatBotHandler) Update(c *gin.Context) {
	var cmd services.UpdateKnowledgeCommand
	if !bindJSON(c, &cmd) {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cmd.ID = id
	command(c, h.mediator, cmd, http.StatusOK)
}

func (h *ChatBotHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleKnowledgeCommand{ID: id}, http.StatusOK)
}

func (h *ChatBotHandler) List(c *gin.Context) {
	var q services.ListKnowledgeQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListKnowledgeQuery, models.ChatBotKnowledge](c, h.mediator, q)
}

func (h *ChatBotHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/chatbot/ask", h.Ask)

	k := protected.Group("/chatbot/knowledge")
	{
		k.GET("", h.List)
		k.POST("", h.Create)
		k.PUT("/:id", h.Update)
		k.PATCH("/:id/toggle", h.Toggle)
	}
}

type TransactionHandler struct {
	mediator *mediator.Mediator
}

func NewTransactionHandler(m *mediator.Mediator) *TransactionHandler {
	return &TransactionHandler{mediator: m}
}

// Create POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var cmd services.CreateTransactionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// Approve PATCH /api/v1/transactions/:id/approve
func (h *TransactionHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ApproveTransactionCommand{ID: id}, http.StatusOK)
}

// List GET /api/v1/transactions?type=income&from=2025-06-01&to=2025-06-30
func (h *TransactionHandler) List(c *gin.Context) {
	var q services.ListTransactionsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListTransactionsQuery, models.FinancialTransaction](c, h.mediator, q)
}

func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	t := rg.Group("/transactions")
	{
		t.GET("", h.List)
		t.POST("", h.Create)
		t.PATCH("/:id/approve", h.Approve)
	}
}
