package stub

import (
	"cmp"
	"slices"
	"time"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

var paymentOrder = orderings[contract.PaymentRecord]{
	"id":        func(a, b contract.PaymentRecord) int { return cmp.Compare(a.PaymentID, b.PaymentID) },
	"paymentId": func(a, b contract.PaymentRecord) int { return cmp.Compare(a.PaymentID, b.PaymentID) },
	"amount":    func(a, b contract.PaymentRecord) int { return cmp.Compare(a.Amount, b.Amount) },
	"createdAt": func(a, b contract.PaymentRecord) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func registerPayments(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Get("/payments", jwt, auth.RequirePermission(constants.PermPaymentView), s.listPayments)
	api.Get("/payments/:id", jwt, auth.RequirePermission(constants.PermPaymentView), s.getPayment)
	api.Post("/payments/:id/refund", jwt, auth.RequirePermission(constants.PermPaymentRefund), s.refundPayment)
}

func (d *dataset) payment(id int64) (contract.PaymentRecord, bool) {
	p, found := d.payments[id]
	if !found {
		return contract.PaymentRecord{}, false
	}
	out := *p
	out.PaymentDetails = slices.Clone(p.PaymentDetails)
	out.PaymentItems = slices.Clone(p.PaymentItems)
	out.PaymentRefunds = slices.Clone(p.PaymentRefunds)
	if a, found := d.accounts[p.UserID]; found {
		u := a.user
		out.User = &u
	}
	return out, true
}

func (s *Server) listPayments(c *fiber.Ctx) error {
	userID, err := queryID(c, "userId")
	if err != nil {
		return err
	}
	status, err := queryEnum(c, "status", contract.ParsePaymentStatus)
	if err != nil {
		return err
	}
	method, err := queryEnum(c, "paymentMethod", contract.ParsePaymentMethod)
	if err != nil {
		return err
	}
	start, err := queryDate(c, "startDate")
	if err != nil {
		return err
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(start.Time) {
		return invalid("endDate", "before startDate")
	}

	var payments []contract.PaymentRecord
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.payments) {
			p, _ := d.payment(id)
			day := p.CreatedAt.UTC().Truncate(24 * time.Hour)
			switch {
			case userID != nil && p.UserID != *userID,
				status != "" && p.PaymentStatus != status,
				method != "" && p.PaymentMethod != method,
				start != nil && day.Before(start.Time),
				end != nil && day.After(end.Time):
				continue
			}
			payments = append(payments, p)
		}
		return nil
	})
	return ok(c, paginate(c, payments, paymentOrder))
}

func (s *Server) getPayment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var payment contract.PaymentRecord
	err = s.Fixtures.do(func(d *dataset) error {
		p, found := d.payment(id)
		if !found {
			return notFound("PAYMENT", id)
		}
		payment = p
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, payment)
}

// refundPayment records a pending refund request. Only completed payments
// can be refunded, and open requests count against the refundable amount.
func (s *Server) refundPayment(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req contract.RefundRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var refund contract.PaymentRefund
	err = s.Fixtures.do(func(d *dataset) error {
		p, found := d.payments[id]
		if !found {
			return notFound("PAYMENT", id)
		}
		if p.PaymentStatus != contract.PaymentCompleted {
			return invalid("paymentStatus", "only completed payments can be refunded")
		}
		var claimed int64
		for _, r := range p.PaymentRefunds {
			if r.RefundStatus != contract.RefundFailed {
				claimed += r.RefundAmount
			}
		}
		if req.RefundAmount > p.Amount-claimed {
			return invalid("refundAmount", "exceeds the refundable amount")
		}
		refund = contract.PaymentRefund{
			RefundID:     d.nextID(),
			PaymentID:    id,
			RefundAmount: req.RefundAmount,
			RefundReason: req.RefundReason,
			RefundStatus: contract.RefundPending,
			Audit:        d.stamp(),
		}
		refund.CreatedBy = actor(c)
		next := *p
		next.PaymentRefunds = append(slices.Clone(p.PaymentRefunds), refund)
		d.touch(&next.Audit, actor(c))
		d.payments[id] = &next
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdatePayment, "refund_requested", id, refund)
	return created(c, refund, constants.MessageSuccess)
}
