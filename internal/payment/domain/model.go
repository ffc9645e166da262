package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Method is the settlement instrument.
type Method string

const (
	MethodDinheiro      Method = "DINHEIRO"
	MethodPix           Method = "PIX"
	MethodCartaoDebito  Method = "CARTAO_DEBITO"
	MethodCartaoCredito Method = "CARTAO_CREDITO"
)

// Status of an individual payment. Manual payments are born APROVADO;
// terminal payments start PENDENTE until confirmed or refused.
type Status string

const (
	StatusAprovado Status = "APROVADO"
	StatusPendente Status = "PENDENTE"
	StatusRecusado Status = "RECUSADO"
)

var validMethods = map[Method]struct{}{
	MethodDinheiro:      {},
	MethodPix:           {},
	MethodCartaoDebito:  {},
	MethodCartaoCredito: {},
}

func ParseMethod(value string) (Method, error) {
	method := Method(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := validMethods[method]; !ok {
		return "", ErrInvalidMethod
	}
	return method, nil
}

// Terminal reports whether the card terminal can take this method.
func (m Method) Terminal() bool {
	return m == MethodPix || m == MethodCartaoDebito || m == MethodCartaoCredito
}

type Payment struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	OrderID     int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	Method      Method          `gorm:"type:text;not null" json:"method"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      Status          `gorm:"type:text;not null" json:"status"`
	ExternalRef *string         `gorm:"column:external_ref;type:text;uniqueIndex:idx_payments_external_ref" json:"external_ref,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// Summary is the settlement position of one order: what it costs, what has
// been approved, and what is still open.
type Summary struct {
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

func (s Summary) Clone() Summary { return s }

// Summarize folds the approved payments of an order into a Summary.
// Outstanding never goes below zero.
func Summarize(total decimal.Decimal, payments []Payment) Summary {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == StatusAprovado {
			paid = paid.Add(p.Amount)
		}
	}
	outstanding := total.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return Summary{Total: total, Paid: paid, Outstanding: outstanding}
}
