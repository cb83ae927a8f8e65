package handlers

import (
	"net/http"

	"dentalclinic/internal/mediator"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
)

// ===========================================================================
// Patient & User Handler
// Hồ sơ bệnh nhân và tài khoản nhân sự
// ===========================================================================

type PatientHandler struct {
	mediator *mediator.Mediator
}

func NewPatientHandler(m *mediator.Mediator) *PatientHandler {
	return &PatientHandler{mediator: m}
}

// Create lễ tân tạo hồ sơ, response chứa mật khẩu tạm
// POST /api/v1/patients
func (h *PatientHandler) Create(c *gin.Context) {
	var cmd services.CreatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	dispatch[services.CreatePatientCommand, *services.PatientCreated](c, h.mediator, cmd, http.StatusCreated)
}

// Update PUT /api/v1/patients/:id
func (h *PatientHandler) Update(c *gin.Context) {
	var cmd services.UpdatePatientCommand
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

// Get GET /api/v1/patients/:id
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dispatch[services.GetPatientQuery, *models.Patient](c, h.mediator, services.GetPatientQuery{ID: id}, http.StatusOK)
}

// List GET /api/v1/patients?q=0901
func (h *PatientHandler) List(c *gin.Context) {
	var q services.ListPatientsQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListPatientsQuery, models.Patient](c, h.mediator, q)
}

func (h *PatientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/patients")
	{
		p.GET("", h.List)
		p.POST("", h.Create)
		p.GET("/:id", h.Get)
		p.PUT("/:id", h.Update)
	}
}

type UserHandler struct {
	mediator *mediator.Mediator
}

func NewUserHandler(m *mediator.Mediator) *UserHandler {
	return &UserHandler{mediator: m}
}

// Create quản trị viên tạo tài khoản nhân sự
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var cmd services.CreateStaffCommand
	if !bindJSON(c, &cmd) {
		return
	}
	command(c, h.mediator, cmd, http.StatusCreated)
}

// ToggleActive PATCH /api/v1/users/:id/toggle-active
func (h *UserHandler) ToggleActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	command(c, h.mediator, services.ToggleUserActiveCommand{ID: id}, http.StatusOK)
}

// List GET /api/v1/users?role=Dentist
func (h *UserHandler) List(c *gin.Context) {
	var q services.ListUsersQuery
	if !bindQuery(c, &q) {
		return
	}
	list[services.ListUsersQuery, models.User](c, h.mediator, q)
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	{
		u.GET("", h.List)
		u.POST("", h.Create)
		u.PATCH("/:id/toggle-active", h.ToggleActive)
	}
}
