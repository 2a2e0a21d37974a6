package service

import (
	"context"
	"fmt"
	"os"
	"sekarnet/domain"
	"sekarnet/utils"
	"time"
)

const qrisValidity = 24 * time.Hour

// QRISConfig describes the static merchant QR shown to customers.
type QRISConfig struct {
	ImagePath    string
	MerchantName string
	MerchantCity string
	PostalCode   string
}

type paymentService struct {
	billRepo domain.BillRepository
	cfg      QRISConfig
	now      clock
}

func NewPaymentService(billRepo domain.BillRepository, cfg QRISConfig) domain.PaymentUseCase {
	return &paymentService{billRepo: billRepo, cfg: cfg, now: time.Now}
}

func (s *paymentService) payableBill(ctx context.Context, actor domain.Actor, billID uint) (*domain.Bill, error) {
	bill, err := s.billRepo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, bill.UserID) {
		return nil, forbidden("bill %d", billID)
	}
	return bill, nil
}

func (s *paymentService) GetQRIS(ctx context.Context, actor domain.Actor, billID uint) (*domain.QRISPayment, error) {
	bill, err := s.payableBill(ctx, actor, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillPaid || bill.Status == domain.BillCancelled {
		return nil, invalid("bill %d is %s", bill.ID, bill.Status)
	}

	number := utils.BillNumber(bill.ID)
	return &domain.QRISPayment{
		QRISData: domain.QRISData{
			BillID:       bill.ID,
			Amount:       bill.Amount,
			MerchantName: s.cfg.MerchantName,
			MerchantCity: s.cfg.MerchantCity,
			PostalCode:   s.cfg.PostalCode,
			BillNumber:   number,
			Reference1:   fmt.Sprintf("SEKAR%d", bill.ID),
			Reference2:   bill.Period,
			QRImageURL:   fmt.Sprintf("/api/payment/qris/%d/download", bill.ID),
			ValidUntil:   s.now().Add(qrisValidity).Unix(),
		},
		DownloadURL: fmt.Sprintf("/api/payment/qris/%d/download", bill.ID),
		Instructions: []string{
			"Buka aplikasi mobile banking atau e-wallet Anda",
			"Pilih menu Scan QR atau QRIS",
			"Scan kode QR yang ditampilkan",
			fmt.Sprintf("Pastikan nominal pembayaran %s", utils.FormatRupiah(bill.Amount)),
			"Selesaikan pembayaran dan simpan bukti transaksi",
			"Unggah bukti pembayaran untuk verifikasi",
		},
		PaymentDetails: domain.PaymentDetails{
			Amount:     utils.FormatRupiah(bill.Amount),
			Period:     bill.Period,
			DueDate:    utils.FormatDateID(bill.DueDate),
			BillNumber: number,
		},
	}, nil
}

// QRISImage returns the path of the merchant QR image after the access check.
func (s *paymentService) QRISImage(ctx context.Context, actor domain.Actor, billID uint) (string, error) {
	if _, err := s.payableBill(ctx, actor, billID); err != nil {
		return "", err
	}
	if _, err := os.Stat(s.cfg.ImagePath); err != nil {
		return "", fmt.Errorf("%w: QRIS image", domain.ErrNotFound)
	}
	return s.cfg.ImagePath, nil
}
