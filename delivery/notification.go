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

type NotificationHandler struct {
	uc domain.NotificationUseCase
}

func NewNotificationHandler(app *gin.Engine, uc domain.NotificationUseCase, jwtManager *utils.JWTManager) {
	h := &NotificationHandler{uc: uc}

	ns := app.Group("/api/notifications")
	ns.Use(config.AuthMiddleware(jwtManager))
	{
		ns.GET("", h.ListMine)
		ns.POST("", middleware.RequireAction(domain.ActionNotificationCreate), h.Create)
		ns.PATCH("/:id/read", h.MarkRead)
		ns.POST("/broadcast", middleware.RequireAction(domain.ActionNotificationBroadcast), h.Broadcast)
	}
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	ns, err := h.uc.ListMine(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListNotifications", err)
		return
	}
	writeOK(c, http.StatusOK, "ListNotifications", ns)
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateNotification", err)
		return
	}
	n := dto.MakeCreateNotificationRequest(&req)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &n)
	if err != nil {
		writeError(c, "CreateNotification", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateNotification", created)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "MarkNotificationRead", err)
		return
	}
	n, err := h.uc.MarkRead(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "MarkNotificationRead", err)
		return
	}
	writeOK(c, http.StatusOK, "MarkNotificationRead", n)
}

// Broadcast blocks until every email has been attempted.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "Broadcast", err)
		return
	}
	res, err := h.uc.Broadcast(c.Request.Context(), actorOf(c), dto.MakeBroadcastInput(&req))
	if err != nil {
		writeError(c, "Broadcast", err)
		return
	}
	writeOK(c, http.StatusOK, "Broadcast", res)
}
