package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler thủ thuật và vật tư
type CatalogHandler struct {
	mediator *mediator.Mediator
}

func NewCatalogHandler(m *mediator.Mediator) *CatalogHandler {
	return &CatalogHandler{mediator: m}
}

func (h *CatalogHandler) CreateProcedure(c *gin.Context) {
	var cmd services.CreateProcedureCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

func (h *CatalogHandler) UpdateProcedure(c *gin.Context) {
	var cmd services.UpdateProcedureCommand
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

func (h *CatalogHandler) ToggleProcedure(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleProcedureCommand{ID: id}, http.StatusOK)
}

// ListProcedures công khai, khách chỉ thấy thủ thuật đang hoạt động
func (h *CatalogHandler) ListProcedures(c *gin.Context) {
	var q services.ListProceduresQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListProceduresQuery, models.Procedure](c, h.mediator, q)
}

func (h *CatalogHandler) CreateSupplies(c *gin.Context) {
	var cmd services.CreateSuppliesCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

func (h *CatalogHandler) UpdateSupplies(c *gin.Context) {
	var cmd services.UpdateSuppliesCommand
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

func (h *CatalogHandler) ToggleSupplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleSuppliesCommand{ID: id}, http.StatusOK)
}

func (h *CatalogHandler) ListSupplies(c *gin.Context) {
	var q services.ListSuppliesQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListSuppliesQuery, models.Supplies](c, h.mediator, q)
}

// RegisterRoutes public nhận OptionalAuth, protected nhận AuthMiddleware
func (h *CatalogHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/procedures", h.ListProcedures)

	p := protected.Group("/procedures")
	{
		p.POST("", h.CreateProcedure)
		p.PUT("/:id", h.UpdateProcedure)
		p.PATCH("/:id/toggle", h.ToggleProcedure)
	}

	s := protected.Group("/supplies")
	{
		s.GET("", h.ListSupplies)
		s.POST("", h.CreateSupplies)
		s.PUT("/:id", h.UpdateSupplies)
		s.PATCH("/:id/toggle", h.ToggleSupplies)
	}
}
