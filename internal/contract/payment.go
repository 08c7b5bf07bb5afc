package contract

// Amounts are whole KRW.
type PaymentRecord struct {
	PaymentID      int64           `json:"paymentId" validate:"required"`
	UserID         int64           `json:"userId"`
	Amount         int64           `json:"amount" validate:"min=0"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus" validate:"required,enum"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod" validate:"required,enum"`
	TransactionID  string          `json:"transactionId,omitempty"`
	User           *User           `json:"user,omitempty"`
	PaymentDetails []PaymentDetail `json:"paymentDetails,omitempty" validate:"dive"`
	PaymentItems   []PaymentItem   `json:"paymentItems,omitempty" validate:"dive"`
	PaymentRefunds []PaymentRefund `json:"paymentRefunds,omitempty" validate:"dive"`
	Audit
}

// Refunded sums the completed refunds.
func (p PaymentRecord) Refunded() int64 {
	var total int64
	for _, r := range p.PaymentRefunds {
		if r.RefundStatus == RefundCompleted {
			total += r.RefundAmount
		}
	}
	return total
}

type PaymentDetail struct {
	DetailID    int64  `json:"detailId"`
	PaymentID   int64  `json:"paymentId"`
	CardName    string `json:"cardName,omitempty"`
	CardNumber  string `json:"cardNumber,omitempty"`
	CardQuota   *int   `json:"cardQuota,omitempty" validate:"omitempty,min=0"`
	VbankName   string `json:"vbankName,omitempty"`
	VbankNumber string `json:"vbankNumber,omitempty"`
	VbankHolder string `json:"vbankHolder,omitempty"`
	VbankDate   *Date  `json:"vbankDate,omitempty"`
	Audit
}

type PaymentItem struct {
	ItemID     int64  `json:"itemId"`
	PaymentID  int64  `json:"paymentId"`
	ItemName   string `json:"itemName" validate:"required"`
	ItemAmount int64  `json:"itemAmount" validate:"min=0"`
	Quantity   int    `json:"quantity" validate:"min=1"`
	Audit
}

type PaymentRefund struct {
	RefundID     int64        `json:"refundId"`
	PaymentID    int64        `json:"paymentId"`
	RefundAmount int64        `json:"refundAmount" validate:"min=0"`
	RefundReason string       `json:"refundReason"`
	RefundStatus RefundStatus `json:"refundStatus" validate:"required,enum"`
	RefundDate   *Date        `json:"refundDate,omitempty"`
	Audit
}
