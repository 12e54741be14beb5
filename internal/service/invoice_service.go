package service

import (
	"context"
	"path/filepath"

	"dellasoft/internal/repository"

	"github.com/google/uuid"
)

// InvoiceService exposes the invoices rendered by the invoice worker.
type InvoiceService interface {
	// LatestPDF returns the absolute path of the newest issued invoice of an order.
	LatestPDF(ctx context.Context, orderID uuid.UUID) (string, error)
}

type invoiceService struct {
	repo        repository.InvoiceRepository
	storagePath string
}

func NewInvoiceService(repo repository.InvoiceRepository, storagePath string) InvoiceService {
	return &invoiceService{repo: repo, storagePath: storagePath}
}

func (s *invoiceService) LatestPDF(ctx context.Context, orderID uuid.UUID) (string, error) {
	inv, err := s.repo.LatestByOrder(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", notFound("factura")
		}
		return "", storageErr("buscar factura", err)
	}
	if inv.PDFPath == nil || *inv.PDFPath == "" {
		return "", notFound("factura")
	}
	return filepath.Join(s.storagePath, filepath.Base(*inv.PDFPath)), nil
}
