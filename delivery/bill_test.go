package delivery

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sekarnet/domain"
	"sekarnet/testutil"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var pngProof = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func seedBill(t *testing.T, db *gorm.DB, owner *domain.User, pkg *domain.Package) *domain.Bill {
	t.Helper()
	now := time.Now().Unix()
	sub := &domain.Subscription{UserID: owner.ID, PackageID: pkg.ID, Status: domain.SubscriptionActive, StartDate: now}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	bill := &domain.Bill{UserID: owner.ID, SubscriptionID: sub.ID, Amount: pkg.Price, DueDate: now, Status: domain.BillUnpaid, Period: "Mei 2025"}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("seed bill: %v", err)
	}
	return bill
}

func uploadProof(t *testing.T, app *gin.Engine, token string, billID uint, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "bukti.png")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/bills/"+strconv.FormatUint(uint64(billID), 10)+"/payment-proof", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func storedProofs(t *testing.T, uploadDir string) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(uploadDir, proofFolder))
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read uploads: %v", err)
	}
	return len(entries)
}

func get(app *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestPaymentProofUploadAndDownload(t *testing.T) {
	app, db, uploadDir := newTestAppWith(t, nil)
	alice := testutil.SeedUser(t, db, "alice", domain.RoleCustomer)
	testutil.SeedUser(t, db, "bob", domain.RoleCustomer)
	testutil.SeedUser(t, db, "admin", domain.RoleAdmin)
	pkg := testutil.SeedPackage(t, db, "Home 20", 250000)
	bill := seedBill(t, db, alice, pkg)
	empty := seedBill(t, db, alice, pkg)

	aliceToken := login(t, app, "alice", "alice")
	rec := uploadProof(t, app, aliceToken, bill.ID, pngProof)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var stored domain.Bill
	db.First(&stored, bill.ID)
	if stored.Status != domain.BillPending || stored.PaymentProof == nil || !strings.HasPrefix(*stored.PaymentProof, "/uploads/"+proofFolder+"/") {
		t.Fatalf("unexpected bill after upload: %+v", stored)
	}
	if n := storedProofs(t, uploadDir); n != 1 {
		t.Fatalf("expected one stored proof, got %d", n)
	}

	// a pending bill cannot take another proof and nothing reaches storage
	rec = uploadProof(t, app, aliceToken, bill.ID, pngProof)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second upload: expected 400, got %d", rec.Code)
	}
	if n := storedProofs(t, uploadDir); n != 1 {
		t.Fatalf("rejected upload left a file behind: %d stored", n)
	}

	proofPath := fmt.Sprintf("/api/bills/%d/payment-proof", bill.ID)
	rec = get(app, proofPath, aliceToken)
	if rec.Code != http.StatusOK || !bytes.Equal(rec.Body.Bytes(), pngProof) {
		t.Fatalf("owner download: %d %q", rec.Code, rec.Body.String())
	}
	if rec = get(app, proofPath, login(t, app, "admin", "admin")); rec.Code != http.StatusOK {
		t.Fatalf("admin download: expected 200, got %d", rec.Code)
	}
	if rec = get(app, proofPath, login(t, app, "bob", "bob")); rec.Code != http.StatusForbidden {
		t.Fatalf("another customer: expected 403, got %d", rec.Code)
	}
	if rec = get(app, proofPath, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}
	if rec = get(app, *stored.PaymentProof, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("proofs must not be served publicly, got %d", rec.Code)
	}
	if rec = get(app, fmt.Sprintf("/api/bills/%d/payment-proof", empty.ID), aliceToken); rec.Code != http.StatusNotFound {
		t.Fatalf("bill without proof: expected 404, got %d", rec.Code)
	}
}

// attachFails passes everything through except AttachProof, which loses a
// race with a concurrent status change.
type attachFails struct {
	domain.BillUseCase
}

func (attachFails) AttachProof(ctx context.Context, actor domain.Actor, id uint, proof string) (*domain.Bill, error) {
	return nil, fmt.Errorf("%w: bill %d changed meanwhile", domain.ErrInvalidTransition, id)
}

func TestFailedAttachRemovesUpload(t *testing.T) {
	app, db, uploadDir := newTestAppWith(t, func(uc *UseCases) {
		uc.Bill = attachFails{uc.Bill}
	})
	alice := testutil.SeedUser(t, db, "alice", domain.RoleCustomer)
	bill := seedBill(t, db, alice, testutil.SeedPackage(t, db, "Home 20", 250000))

	rec := uploadProof(t, app, login(t, app, "alice", "alice"), bill.ID, pngProof)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	if n := storedProofs(t, uploadDir); n != 0 {
		t.Fatalf("expected the orphaned proof removed, %d left", n)
	}
}
