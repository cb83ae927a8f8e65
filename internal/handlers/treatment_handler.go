package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// Treatment Handler
// Hồ sơ điều trị, tiến trình điều trị và thẻ bảo hành
// ===========================================================================

type TreatmentHandler struct {
	mediator *mediator.Mediator
}

func NewTreatmentHandler(m *mediator.Mediator) *TreatmentHandler {
	return &TreatmentHandler{mediator: m}
}

// CreateRecord POST /api/v1/treatment-records
func (h *TreatmentHandler) CreateRecord(c *gin.Context) {
	var cmd services.CreateTreatmentRecordCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// UpdateRecord PUT /api/v1/treatment-records/:id
func (h *TreatmentHandler) UpdateRecord(c *gin.Context) {
	var cmd services.UpdateTreatmentRecordCommand
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

// ToggleRecord PATCH /api/v1/treatment-records/:id/toggle
func (h *TreatmentHandler) ToggleRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleTreatmentRecordCommand{ID: id}, http.StatusOK)
}

// ListRecords GET /api/v1/treatment-records?patient_id=...
// Bệnh nhân gọi thì patient_id bị bỏ qua
func (h *TreatmentHandler) ListRecords(c *gin.Context) {
	var q services.ListTreatmentRecordsQuery
	if !bindQuery(c, &q) {
		return
	}
	patientID, ok := queryID(c, "patient_id")
	if !ok {
		return
	}
	if patientID != nil {
		q.PatientID = *patientID
	}
	list[services.ListTreatmentRecordsQuery, models.TreatmentRecord](c, h.mediator, q)
}

// ListProgress GET /api/v1/treatment-records/:id/progress
func (h *TreatmentHandler) ListProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dispatch[services.ListTreatmentProgressQuery, []models.TreatmentProgress](c, h.mediator,
		services.ListTreatmentProgressQuery{TreatmentRecordID: id}, http.StatusOK)
}

// CreateProgress POST /api/v1/treatment-progress
func (h *TreatmentHandler) CreateProgress(c *gin.Context) {
	var cmd services.CreateTreatmentProgressCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// UpdateProgress PUT /api/v1/treatment-progress/:id
func (h *TreatmentHandler) UpdateProgress(c *gin.Context) {
	var cmd services.UpdateTreatmentProgressCommand
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

// CreateWarranty POST /api/v1/warranty-cards
func (h *TreatmentHandler) CreateWarranty(c *gin.Context) {
	var cmd services.CreateWarrantyCardCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// UpdateWarranty PUT /api/v1/warranty-cards/:id
func (h *TreatmentHandler) UpdateWarranty(c *gin.Context) {
	var cmd services.UpdateWarrantyCardCommand
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

// ToggleWarranty PATCH /api/v1/warranty-cards/:id/toggle
func (h *TreatmentHandler) ToggleWarranty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleWarrantyCardCommand{ID: id}, http.StatusOK)
}

// ListWarranties GET /api/v1/warranty-cards?patient_id=...
func (h *TreatmentHandler) ListWarranties(c *gin.Context) {
	var q services.ListWarrantyCardsQuery
	if !bindQuery(c, &q) {
		return
	}
	var ok bool
	if q.PatientID, ok = queryID(c, "patient_id"); !ok {
		return
	}
	list[services.ListWarrantyCardsQuery, models.WarrantyCard](c, h.mediator, q)
}

func (h *TreatmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/treatment-records")
	{
		r.GET("", h.ListRecords)
		r.POST("", h.CreateRecord)
		r.PUT("/:id", h.UpdateRecord)
		r.PATCH("/:id/toggle", h.ToggleRecord)
		r.GET("/:id/progress", h.ListProgress)
	}

	p := rg.Group("/treatment-progress")
	{
		p.POST("", h.CreateProgress)
		p.PUT("/:id", h.UpdateProgress)
	}

	w := rg.Group("/warranty-cards")
	{
		w.GET("", h.ListWarranties)
		w.POST("", h.CreateWarranty)
		w.PUT("/:id", h.UpdateWarranty)
		w.PATCH("/:id/toggle", h.ToggleWarranty)
	}
}

