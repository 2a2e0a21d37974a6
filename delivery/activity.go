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

type ActivityHandler struct {
	uc domain.ActivityUseCase
}

func NewActivityHandler(app *gin.Engine, uc domain.ActivityUseCase, jwtManager *utils.JWTManager) {
	h := &ActivityHandler{uc: uc}

	api := app.Group("/api")
	api.Use(config.AuthMiddleware(jwtManager))
	{
		api.GET("/connection-stats", h.ListStats)
		api.POST("/connection-stats", middleware.RequireAction(domain.ActionStatCreate), h.RecordStat)
		api.GET("/user-activities", middleware.RequireAction(domain.ActionActivityView), h.ListActivities)
	}
}

func (h *ActivityHandler) ListStats(c *gin.Context) {
	stats, err := h.uc.ListStats(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListConnectionStats", err)
		return
	}
	writeOK(c, http.StatusOK, "ListConnectionStats", stats)
}

func (h *ActivityHandler) RecordStat(c *gin.Context) {
	var req dto.CreateStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "RecordConnectionStat", err)
		return
	}
	stat := dto.MakeCreateStatRequest(&req)
	created, err := h.uc.RecordStat(c.Request.Context(), actorOf(c), &stat)
	if err != nil {
		writeError(c, "RecordConnectionStat", err)
		return
	}
	writeOK(c, http.StatusCreated, "RecordConnectionStat", created)
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	as, err := h.uc.ListActivities(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListActivities", err)
		return
	}
	writeOK(c, http.StatusOK, "ListActivities", as)
}
