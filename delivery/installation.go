package delivery

import (
	"net/http"
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/dto"
	"sekarnet/middleware"
	"sekarnet/utils"

	"github.com/gin-gonic/gin"
)

type InstallationHandler struct {
	uc domain.InstallationUseCase
}

func NewInstallationHandler(app *gin.Engine, uc domain.InstallationUseCase, jwtManager *utils.JWTManager) {
	h := &InstallationHandler{uc: uc}

	reqs := app.Group("/api/installation-requests")
	reqs.Use(config.AuthMiddleware(jwtManager))
	{
		reqs.GET("", h.List)
		reqs.POST("", middleware.RequireAction(domain.ActionInstallationCreate), h.Create)
		reqs.GET("/:id", h.Get)
		reqs.PATCH("/:id", h.Update)
		reqs.POST("/:id/assign", middleware.RequireAction(domain.ActionInstallationAssign), h.Assign)
	}
}

func (h *InstallationHandler) List(c *gin.Context) {
	reqs, err := h.uc.List(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListInstallations", err)
		return
	}
	writeOK(c, http.StatusOK, "ListInstallations", reqs)
}

func (h *InstallationHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "GetInstallation", err)
		return
	}
	req, err := h.uc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "GetInstallation", err)
		return
	}
	writeOK(c, http.StatusOK, "GetInstallation", req)
}

func (h *InstallationHandler) Create(c *gin.Context) {
	var body dto.CreateInstallationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, "CreateInstallation", err)
		return
	}
	req := dto.MakeCreateInstallationRequest(&body)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &req)
	if err != nil {
		writeError(c, "CreateInstallation", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateInstallation", created)
}

func (h *InstallationHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdateInstallation", err)
		return
	}
	var body dto.UpdateInstallationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, "UpdateInstallation", err)
		return
	}
	req, err := h.uc.Update(c.Request.Context(), actorOf(c), id, dto.MakeInstallationUpdate(&body))
	if err != nil {
		writeError(c, "UpdateInstallation", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateInstallation", req)
}

func (h *InstallationHandler) Assign(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "AssignInstallation", err)
		return
	}
	var body dto.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, "AssignInstallation", err)
		return
	}
	req, job, err := h.uc.Assign(c.Request.Context(), actorOf(c), id, body.TechnicianID)
	if err != nil {
		writeError(c, "AssignInstallation", err)
		return
	}
	writeOK(c, http.StatusOK, "AssignInstallation", gin.H{
		"request": req,
		"job":     job,
	})
}
