package cheddargetter

import (
	"github.com/shopspring/decimal"

	"github.com/flexprice/cheddargetter-go/internal/validator"
)

// CustomerRequest carries the customer-level fields for plain create and
// update calls. Metadata is a raw `key=value&key=value` string whose values
// are re-encoded before sending.
type CustomerRequest struct {
	Code          string `validate:"required"`
	FirstName     string
	LastName      string
	Email         string
	Company       string
	Notes         string
	PlanCode      string
	RemoteAddress string
	Metadata      string
}

func (r *CustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CustomerSubscriptionRequest carries customer plus subscription fields for
// the calls that touch payment details. CCExpiration is the pre-joined
// "MM/YYYY" form used on create; CCExpMonth/CCExpYear are joined (with
// zero-padded month) on the update calls.
type CustomerSubscriptionRequest struct {
	Code          string `validate:"required"`
	FirstName     string
	LastName      string
	Email         string
	Company       string
	Notes         string
	PlanCode      string
	CCFirstName   string
	CCLastName    string
	CCNumber      string
	CCExpiration  string
	CCExpMonth    string
	CCExpYear     string
	CCCardCode    string
	CCZip         string
	RemoteAddress string
	Metadata      string
}

func (r *CustomerSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// RefundRequest refunds part or all of a paid invoice.
type RefundRequest struct {
	InvoiceNumber string `validate:"required"`
	Amount        decimal.Decimal
}

func (r *RefundRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// VoidRequest voids an open invoice.
type VoidRequest struct {
	InvoiceNumber string `validate:"required"`
}

func (r *VoidRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CustomChargeRequest adds a one-off charge to a customer's current invoice.
type CustomChargeRequest struct {
	CustomerCode string `validate:"required"`
	ItemCode     string `validate:"required"`
	ChargeCode   string `validate:"required"`
	Quantity     int    `validate:"gte=0"`
	EachAmount   decimal.Decimal
	Description  string
}

func (r *CustomChargeRequest) Validate() error {
	return validator.ValidateRequest(r)
}
