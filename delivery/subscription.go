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

type SubscriptionHandler struct {
	uc domain.SubscriptionUseCase
}

func NewSubscriptionHandler(app *gin.Engine, uc domain.SubscriptionUseCase, jwtManager *utils.JWTManager) {
	h := &SubscriptionHandler{uc: uc}

	subs := app.Group("/api/subscriptions")
	subs.Use(config.AuthMiddleware(jwtManager))
	{
		subs.GET("", h.List)
		subs.POST("", middleware.RequireAction(domain.ActionSubscriptionCreate), h.Create)
		subs.PATCH("/:id", middleware.RequireAction(domain.ActionSubscriptionUpdate), h.UpdateStatus)
	}
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.uc.List(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListSubscriptions", err)
		return
	}
	writeOK(c, http.StatusOK, "ListSubscriptions", subs)
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateSubscription", err)
		return
	}
	sub := dto.MakeCreateSubscriptionRequest(&req)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &sub)
	if err != nil {
		writeError(c, "CreateSubscription", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateSubscription", created)
}

func (h *SubscriptionHandler) UpdateStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdateSubscription", err)
		return
	}
	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdateSubscription", err)
		return
	}
	sub, err := h.uc.UpdateStatus(c.Request.Context(), actorOf(c), id, req.Status)
	if err != nil {
		writeError(c, "UpdateSubscription", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateSubscription", sub)
}
