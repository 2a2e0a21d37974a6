package delivery

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/dto"
	"sekarnet/middleware"
	"sekarnet/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	uc     domain.PaymentUseCase
	billUC domain.BillUseCase
}

func NewPaymentHandler(app *gin.Engine, uc domain.PaymentUseCase, billUC domain.BillUseCase, jwtManager *utils.JWTManager) {
	h := &PaymentHandler{uc: uc, billUC: billUC}

	payment := app.Group("/api/payment")
	payment.Use(config.AuthMiddleware(jwtManager))
	{
		payment.GET("/qris/:billId", h.GetQRIS)
		payment.GET("/qris/:billId/download", h.DownloadQRIS)
		payment.POST("/qris/:billId/verify", middleware.RequireAction(domain.ActionBillPay), h.Verify)
		payment.GET("/history", h.History)
		payment.GET("/statistics", middleware.RequireAction(domain.ActionPaymentStats), h.Statistics)
	}
}

func (h *PaymentHandler) GetQRIS(c *gin.Context) {
	id, err := paramID(c, "billId")
	if err != nil {
		writeError(c, "GetQRIS", err)
		return
	}
	payload, err := h.uc.GetQRIS(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "GetQRIS", err)
		return
	}
	writeOK(c, http.StatusOK, "GetQRIS", payload)
}

func (h *PaymentHandler) DownloadQRIS(c *gin.Context) {
	id, err := paramID(c, "billId")
	if err != nil {
		writeError(c, "DownloadQRIS", err)
		return
	}
	path, err := h.uc.QRISImage(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "DownloadQRIS", err)
		return
	}
	utils.PrintLogInfo(username(c), http.StatusOK, "DownloadQRIS", nil)
	c.Header("Content-Type", "image/png")
	c.FileAttachment(path, fmt.Sprintf("qris-%s%s", utils.BillNumber(id), filepath.Ext(path)))
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	id, err := paramID(c, "billId")
	if err != nil {
		writeError(c, "VerifyPayment", err)
		return
	}
	var req dto.PaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "VerifyPayment", err)
		return
	}
	bill, err := h.billUC.AttachProof(c.Request.Context(), actorOf(c), id, req.PaymentProof)
	if err != nil {
		writeError(c, "VerifyPayment", err)
		return
	}
	writeOK(c, http.StatusOK, "VerifyPayment", bill)
}

func (h *PaymentHandler) History(c *gin.Context) {
	bills, err := h.billUC.History(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "PaymentHistory", err)
		return
	}
	writeOK(c, http.StatusOK, "PaymentHistory", bills)
}

func (h *PaymentHandler) Statistics(c *gin.Context) {
	stats, err := h.billUC.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, "PaymentStatistics", err)
		return
	}
	writeOK(c, http.StatusOK, "PaymentStatistics", stats)
}
