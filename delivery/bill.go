package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/dto"
	"sekarnet/middleware"
	"sekarnet/storage"
	"sekarnet/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const proofFolder = "payment-proofs"

type BillHandler struct {
	uc       domain.BillUseCase
	uploader storage.Uploader
}

func NewBillHandler(app *gin.Engine, uc domain.BillUseCase, uploader storage.Uploader, jwtManager *utils.JWTManager) {
	h := &BillHandler{uc: uc, uploader: uploader}

	bills := app.Group("/api/bills")
	bills.Use(config.AuthMiddleware(jwtManager))
	{
		bills.GET("", h.List)
		bills.POST("", middleware.RequireAction(domain.ActionBillCreate), h.Create)
		bills.GET("/:id", h.Get)
		bills.PATCH("/:id", middleware.RequireAction(domain.ActionBillUpdate), h.Update)
		bills.PATCH("/:id/payment", middleware.RequireAction(domain.ActionBillPay), h.AttachProof)
		bills.GET("/:id/payment-proof", h.DownloadProof)
		bills.POST("/:id/payment-proof", middleware.RequireAction(domain.ActionBillPay), h.UploadProof)
		bills.POST("/:id/confirm", middleware.RequireAction(domain.ActionBillConfirm), h.Confirm)
		bills.POST("/:id/reminder", middleware.RequireAction(domain.ActionBillRemind), h.SendReminder)
	}
}

func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.uc.List(c.Request.Context(), actorOf(c))
	if err != nil {
		writeError(c, "ListBills", err)
		return
	}
	writeOK(c, http.StatusOK, "ListBills", bills)
}

func (h *BillHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "GetBill", err)
		return
	}
	bill, err := h.uc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "GetBill", err)
		return
	}
	writeOK(c, http.StatusOK, "GetBill", bill)
}

func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "CreateBill", err)
		return
	}
	bill := dto.MakeCreateBillRequest(&req)
	created, err := h.uc.Create(c.Request.Context(), actorOf(c), &bill)
	if err != nil {
		writeError(c, "CreateBill", err)
		return
	}
	writeOK(c, http.StatusCreated, "CreateBill", created)
}

func (h *BillHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UpdateBill", err)
		return
	}
	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "UpdateBill", err)
		return
	}
	bill, err := h.uc.Update(c.Request.Context(), actorOf(c), id, dto.MakeBillUpdate(&req))
	if err != nil {
		writeError(c, "UpdateBill", err)
		return
	}
	writeOK(c, http.StatusOK, "UpdateBill", bill)
}

func (h *BillHandler) AttachProof(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "AttachPaymentProof", err)
		return
	}
	var req dto.PaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "AttachPaymentProof", err)
		return
	}
	bill, err := h.uc.AttachProof(c.Request.Context(), actorOf(c), id, req.PaymentProof)
	if err != nil {
		writeError(c, "AttachPaymentProof", err)
		return
	}
	writeOK(c, http.StatusOK, "AttachPaymentProof", bill)
}

// UploadProof stores a multipart "file" and attaches its URL as the proof.
func (h *BillHandler) UploadProof(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "UploadPaymentProof", err)
		return
	}
	actor := actorOf(c)
	// ownership and status are checked before touching storage
	current, err := h.uc.Get(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, "UploadPaymentProof", err)
		return
	}
	if err := domain.BillFlow.Transition(current.Status, domain.BillPending); err != nil {
		writeError(c, "UploadPaymentProof", err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadSize+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, "UploadPaymentProof", fmt.Errorf("%w: file is required", domain.ErrValidation))
		return
	}

	name := utils.UniqueFilename(fmt.Sprintf("payment-proof-%d", id), header.Filename)
	url, err := storage.SaveMultipart(c.Request.Context(), h.uploader, proofFolder, name, header)
	if err != nil {
		if errors.Is(err, storage.ErrFileType) || errors.Is(err, storage.ErrFileTooLarge) {
			err = fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		writeError(c, "UploadPaymentProof", err)
		return
	}

	bill, err := h.uc.AttachProof(c.Request.Context(), actor, id, url)
	if err != nil {
		if delErr := h.uploader.Delete(context.WithoutCancel(c.Request.Context()), url); delErr != nil {
			log.Error().Err(delErr).Str("ref", url).Msg("failed to remove orphaned payment proof")
		}
		writeError(c, "UploadPaymentProof", err)
		return
	}
	writeOK(c, http.StatusOK, "UploadPaymentProof", bill)
}

// DownloadProof serves the bill's proof to its owner or an admin. Remote
// proofs redirect to their storage url.
func (h *BillHandler) DownloadProof(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "DownloadPaymentProof", err)
		return
	}
	bill, err := h.uc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "DownloadPaymentProof", err)
		return
	}
	if bill.PaymentProof == nil || *bill.PaymentProof == "" {
		writeError(c, "DownloadPaymentProof", fmt.Errorf("%w: bill %d has no payment proof", domain.ErrNotFound, id))
		return
	}
	ref := *bill.PaymentProof
	if storage.IsRemote(ref) {
		c.Redirect(http.StatusFound, ref)
		return
	}

	local, ok := h.uploader.(*storage.LocalUploader)
	if !ok {
		writeError(c, "DownloadPaymentProof", fmt.Errorf("%w: payment proof %s", domain.ErrNotFound, ref))
		return
	}
	path, err := local.Path(ref)
	if err != nil {
		writeError(c, "DownloadPaymentProof", fmt.Errorf("%w: payment proof %s", domain.ErrNotFound, ref))
		return
	}
	utils.PrintLogInfo(username(c), http.StatusOK, "DownloadPaymentProof", nil)
	c.File(path)
}

func (h *BillHandler) Confirm(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "ConfirmPayment", err)
		return
	}
	bill, err := h.uc.Confirm(c.Request.Context(), actorOf(c), id)
	if err != nil {
		writeError(c, "ConfirmPayment", err)
		return
	}
	writeOK(c, http.StatusOK, "ConfirmPayment", bill)
}

func (h *BillHandler) SendReminder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		writeError(c, "SendReminder", err)
		return
	}
	if err := h.uc.SendReminder(c.Request.Context(), actorOf(c), id); err != nil {
		writeError(c, "SendReminder", err)
		return
	}
	utils.PrintLogInfo(username(c), http.StatusOK, "SendReminder", nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reminder queued",
	})
}
