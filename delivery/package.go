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

type PackageHandler struct {
	uc domain.PackageUseCase
}

func NewPackageHandler(app *gin.Engine, uc domain.PackageUseCase, jwtManager *utils.JWTManager) {
	h := &PackageHandler{uc: uc}

	packages := app.Group("/api/packages")
	packages.GET("", h.GetAllPackages)

	admin := packages.Group("")
	admin.Use(config.AuthMiddleware(jwtManager), middleware.RequireAction(domain.ActionPackageWrite))
	admin.POST("", h.CreatePackage)
	admin.PATCH("/:id", h.UpdatePackage)
}

func (h *PackageHandler) GetAllPackages(c *gin.Context) {
	pkgs, err := h.uc.GetAllPackages(c.Request.Context())
	if err != nil {
		writeError(c, "GetAllPackages", err)
		return
	}
	writeOK(c, http.StatusOK, "GetAllPackages", pkgs)
}

func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreatePackage", err)
		return
	}
	pkg := dto.MakeCreatePackageRequest(&req)
	created, err := h.uc.CreatePackage(c.Request.Context(), &pkg)
	if err != nil {
		writeError(c, "CreatePackage", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreatePackage", created)
}

func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdatePackage", err)
		return
	}
	var req dto.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdatePackage", err)
		return
	}
	pkg, err := h.uc.UpdatePackage(c.Request.Context(), id, dto.MakePackageUpdate(&req))
	if err != nil {
		writeError(c, "UpdatePackage", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdatePackage", pkg)
}
