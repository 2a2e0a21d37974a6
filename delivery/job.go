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

type JobHandler struct {
	uc domain.JobUseCase
}

func NewJobHandler(app *gin.Engine, uc domain.JobUseCase, jwtManager *utils.JWTManager) {
	h := &JobHandler{uc: uc}

	jobs := app.Group("/api/technician-jobs")
	jobs.Use(config.AuthMiddleware(jwtManager), middleware.RequireAction(domain.ActionJobView))
	{
		jobs.GET("", h.List)
		jobs.POST("", middleware.RequireAction(domain.ActionJobCreate), h.Create)
		jobs.GET("/:id", h.Get)
		jobs.PATCH("/:id", middleware.RequireAction(domain.ActionJobUpdate), h.Update)
	}
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.uc.List(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListJobs", err)
		return
	}
	writeOK(c, http.StatusOK, "ListJobs", jobs)
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "GetJob", err)
		return
	}
	job, err := h.uc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "GetJob", err)
		return
	}
	writeOK(c, http.StatusOK, "GetJob", job)
}

func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateJob", err)
		return
	}
	job := dto.MakeCreateJobRequest(&req)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &job)
	if err != nil {
		writeError(c, "CreateJob", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateJob", created)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdateJob", err)
		return
	}
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdateJob", err)
		return
	}
	job, err := h.uc.Update(c.Request.Context(), actorOf(c), id, dto.MakeJobUpdate(&req))
	if err != nil {
		writeError(c, "UpdateJob", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateJob", job)
}
