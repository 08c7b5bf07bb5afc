package apiclient

import (
	"context"
	"net/http"

	"github.com/son-changwook/routepick/internal/contract"
)

type PaymentService struct{ c *Client }

func (s *PaymentService) List(ctx context.Context, f contract.PaymentFilter) (*contract.PageResponse[contract.PaymentRecord], error) {
	var page contract.PageResponse[contract.PaymentRecord]
	if err := s.c.do(ctx, call{op: "payments.list", method: http.MethodGet, path: "/api/payments", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*contract.PaymentRecord, error) {
	var p contract.PaymentRecord
	if err := s.c.do(ctx, call{op: "payments.get", method: http.MethodGet, path: idPath("/api/payments/%d", id)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Refund requests a refund. The backend decides whether it completes.
func (s *PaymentService) Refund(ctx context.Context, id int64, req contract.RefundRequest) (*contract.PaymentRefund, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var r contract.PaymentRefund
	if err := s.c.do(ctx, call{op: "payments.refund", method: http.MethodPost, path: idPath("/api/payments/%d/refund", id), body: req}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
