package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// PrescriptionHandler đơn thuốc, mẫu chỉ dẫn và chỉ dẫn sau khám
type PrescriptionHandler struct {
	mediator *mediator.Mediator
}

func NewPrescriptionHandler(m *mediator.Mediator) *PrescriptionHandler {
	return &PrescriptionHandler{mediator: m}
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var cmd services.CreatePrescriptionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	var cmd services.UpdatePrescriptionCommand
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

func (h *PrescriptionHandler) TogglePrescription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.TogglePrescriptionCommand{ID: id}, http.StatusOK)
}

// GetPrescription GET /api/v1/appointments/:id/prescription
func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dispatch[services.GetPrescriptionQuery, *models.Prescription](c, h.mediator,
		services.GetPrescriptionQuery{AppointmentID: id}, http.StatusOK)
}

func (h *PrescriptionHandler) CreateTemplate(c *gin.Context) {
	var cmd services.CreateInstructionTemplateCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

func (h *PrescriptionHandler) UpdateTemplate(c *gin.Context) {
	var cmd services.UpdateInstructionTemplateCommand
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

func (h *PrescriptionHandler) ToggleTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleInstructionTemplateCommand{ID: id}, http.StatusOK)
}

func (h *PrescriptionHandler) ListTemplates(c *gin.Context) {
	var q services.ListInstructionTemplatesQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListInstructionTemplatesQuery, models.InstructionTemplate](c, h.mediator, q)
}

// CreateInstruction POST /api/v1/instructions
// Không gửi content thì dùng nội dung của template_id
func (h *PrescriptionHandler) CreateInstruction(c *gin.Context) {
	var cmd services.CreateInstructionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// GetInstruction GET /api/v1/appointments/:id/instruction
func (h *PrescriptionHandler) GetInstruction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dispatch[services.GetInstructionQuery, *models.Instruction](c, h.mediator,
		services.GetInstructionQuery{AppointmentID: id}, http.StatusOK)
}

func (h *PrescriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/prescriptions")
	{
		p.POST("", h.CreatePrescription)
		p.PUT("/:id", h.UpdatePrescription)
		p.PATCH("/:id/toggle", h.TogglePrescription)
	}

	t := rg.Group("/instruction-templates")
	{
		t.GET("", h.ListTemplates)
		t.POST("", h.CreateTemplate)
		t.PUT("/:id", h.UpdateTemplate)
		t.PATCH("/:id/toggle", h.ToggleTemplate)
	}

	rg.POST("/instructions", h.CreateInstruction)
	rg.GET("/appointments/:id/prescription", h.GetPrescription)
	rg.GET("/appointments/:id/instruction", h.GetInstruction)
}
