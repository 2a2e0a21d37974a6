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

type UserHandler struct {
	uc domain.UserUseCase
}

func NewUserHandler(app *gin.Engine, uc domain.UserUseCase, jwtManager *utils.JWTManager) {
	h := &UserHandler{uc: uc}

	users := app.Group("/api/users")
	users.Use(config.AuthMiddleware(jwtManager))
	{
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateProfile)

		admin := users.Group("")
		admin.Use(middleware.RequireAction(domain.ActionUserManage))
		admin.GET("", h.GetAllUsers)
		admin.POST("", h.CreateUser)
		admin.GET("/:id", h.GetUser)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.uc.Me(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "Me", err)
		return
	}
	writeOK(c, http.StatusOK, "Me", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdateProfile", err)
		return
	}
	user, err := h.uc.UpdateProfile(c.Request.Context(), actorOf(c), dto.MakeProfileUpdate(&req))
	if err != nil {
		writeError(c, "UpdateProfile", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateProfile", user)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.uc.GetAllUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		writeError(c, "GetAllUsers", err)
		return
	}
	writeOK(c, http.StatusOK, "GetAllUsers", users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "GetUser", err)
		return
	}
	user, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, "GetUser", err)
		return
	}
	writeOK(c, http.StatusOK, "GetUser", user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateUser", err)
		return
	}
	user := dto.MakeCreateUserRequest(&req)
	created, err := h.uc.CreateUser(c.Request.Context(), actorOf(c), &user, req.Password)
	if err != nil {
		writeError(c, "CreateUser", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateUser", created)
}
