package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// Schedule & Appointment Handler
// Lịch làm việc của nha sĩ và lịch hẹn khám
// ===========================================================================

// ScheduleHandler xử lý lịch làm việc
type ScheduleHandler struct {
	mediator *mediator.Mediator
}

func NewScheduleHandler(m *mediator.Mediator) *ScheduleHandler {
	return &ScheduleHandler{mediator: m}
}

// Create nha sĩ đăng ký ca làm
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var cmd services.CreateScheduleCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// Approve chủ phòng khám duyệt hoặc từ chối
// PATCH /api/v1/schedules/:id/approve
func (h *ScheduleHandler) Approve(c *gin.Context) {
	var cmd services.ApproveScheduleCommand
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

// Cancel nha sĩ hủy ca đang chờ duyệt
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.CancelScheduleCommand{ID: id}, http.StatusOK)
}

// List GET /api/v1/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	var q services.ListSchedulesQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListSchedulesQuery, models.Schedule](c, h.mediator, q)
}

func (h *ScheduleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/schedules")
	{
		s.GET("", h.List)
		s.POST("", h.Create)
		s.PATCH("/:id/approve", h.Approve)
		s.DELETE("/:id", h.Cancel)
	}
}

// AppointmentHandler xử lý lịch hẹn
type AppointmentHandler struct {
	mediator *mediator.Mediator
}

func NewAppointmentHandler(m *mediator.Mediator) *AppointmentHandler {
	return &AppointmentHandler{mediator: m}
}

// Create POST /api/v1/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var cmd services.CreateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// Cancel PATCH /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var cmd services.CancelAppointmentCommand
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

// UpdateStatus ghi nhận bệnh nhân có đến hay không
// PATCH /api/v1/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var cmd services.UpdateAppointmentStatusCommand
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

// List GET /api/v1/appointments?date=2025-06-10&status=confirmed
func (h *AppointmentHandler) List(c *gin.Context) {
	var q services.ListAppointmentsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListAppointmentsQuery, models.Appointment](c, h.mediator, q)
}

// ListDentists GET /api/v1/dentists
func (h *AppointmentHandler) ListDentists(c *gin.Context) {
	var q services.ListDentistsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListDentistsQuery, models.Dentist](c, h.mediator, q)
}

func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	a := rg.Group("/appointments")
	{
		a.GET("", h.List)
		a.POST("", h.Create)
		a.PATCH("/:id/cancel", h.Cancel)
		a.PATCH("/:id/status", h.UpdateStatus)
	}
	rg.GET("/dentists", h.ListDentists)
}
