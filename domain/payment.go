package domain

import "context"

type QRISData struct {
	BillID       uint   `json:"billId"`
	Amount       int64  `json:"amount"`
	MerchantName string `json:"merchantName"`
	MerchantCity string `json:"merchantCity"`
	PostalCode   string `json:"postalCode"`
	BillNumber   string `json:"billNumber"`
	Reference1   string `json:"reference1"`
	Reference2   string `json:"reference2"`
	QRImageURL   string `json:"qrImageUrl"`
	ValidUntil   int64  `json:"validUntil"`
}

type PaymentDetails struct {
	Amount     string `json:"amount"`
	Period     string `json:"period"`
	DueDate    string `json:"dueDate"`
	BillNumber string `json:"billNumber"`
}

type QRISPayment struct {
	QRISData       QRISData       `json:"qrisData"`
	DownloadURL    string         `json:"downloadUrl"`
	Instructions   []string       `json:"instructions"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

type PaymentUseCase interface {
	GetQRIS(ctx context.Context, actor Actor, billID uint) (*QRISPayment, error)
	QRISImage(ctx context.Context, actor Actor, billID uint) (string, error)
}
