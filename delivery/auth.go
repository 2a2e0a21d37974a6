package delivery

import (
	"net/http"
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/dto"
	"sekarnet/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUseCase
}

func NewAuthHandler(app *gin.Engine, authUC domain.AuthUseCase) {
	h := &AuthHandler{authUC: authUC}

	app.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := app.Group("/api/auth")
	{
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
	}

	protected := app.Group("/api/users")
	protected.Use(config.AuthMiddleware(authUC.GetAccessTokenManager()))
	protected.POST("/change-password", h.ChangePassword)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "Register", err)
		return
	}

	user := dto.MakeRegisterRequest(&req)
	res, err := h.authUC.Register(c.Request.Context(), &user, req.Password)
	if err != nil {
		writeError(c, "Register", err)
		return
	}

	utils.PrintLogInfo(&req.Username, http.StatusCreated, "Register", nil)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "Login", err)
		return
	}

	res, err := h.authUC.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, "Login", err)
		return
	}

	utils.PrintLogInfo(&req.Username, http.StatusOK, "Login", nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "ChangePassword", err)
		return
	}

	if err := h.authUC.ChangePassword(c.Request.Context(), actorOf(c), req.OldPassword, req.NewPassword); err != nil {
		writeError(c, "ChangePassword", err)
		return
	}

	utils.PrintLogInfo(username(c), http.StatusOK, "ChangePassword", nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}
