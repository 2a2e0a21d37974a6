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

type TicketHandler struct {
	uc domain.TicketUseCase
}

func NewTicketHandler(app *gin.Engine, uc domain.TicketUseCase, jwtManager *utils.JWTManager) {
	h := &TicketHandler{uc: uc}

	tickets := app.Group("/api/support-tickets")
	tickets.Use(config.AuthMiddleware(jwtManager))
	{
		tickets.GET("", h.List)
		tickets.POST("", middleware.RequireAction(domain.ActionTicketCreate), h.Create)
		tickets.GET("/:id", h.Get)
		tickets.PATCH("/:id", h.Update)
		tickets.POST("/:id/assign", middleware.RequireAction(domain.ActionTicketAssign), h.Assign)
	}
}

func (h *TicketHandler) List(c *gin.Context) {
	ts, err := h.uc.List(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListTickets", err)
		return
	}
	writeOK(c, http.StatusOK, "ListTickets", ts)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "GetTicket", err)
		return
	}
	t, err := h.uc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "GetTicket", err)
		return
	}
	writeOK(c, http.StatusOK, "GetTicket", t)
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateTicket", err)
		return
	}
	t := dto.MakeCreateTicketRequest(&req)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &t)
	if err != nil {
		writeError(c, "CreateTicket", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateTicket", created)
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdateTicket", err)
		return
	}
	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdateTicket", err)
		return
	}
	t, err := h.uc.Update(c.Request.Context(), actorOf(c), id, dto.MakeTicketUpdate(&req))
	if err != nil {
		writeError(c, "UpdateTicket", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateTicket", t)
}

func (h *TicketHandler) Assign(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "AssignTicket", err)
		return
	}
	var req dto.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "AssignTicket", err)
		return
	}
	t, job, err := h.uc.Assign(c.Request.Context(), actorOf(c), id, req.TechnicianID)
	if err != nil {
		writeError(c, "AssignTicket", err)
		return
	}
	writeOK(c, http.StatusOK, "AssignTicket", gin.H{
		"ticket": t,
		"job":    job,
	})
}
