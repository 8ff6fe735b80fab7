package cheddargetter

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a pricing plan configured for the product.
type SubscriptionPlan struct {
	ID                       string
	Code                     string
	Name                     string
	Description              string
	IsActive                 bool
	TrialDays                int
	BillingFrequency         string
	BillingFrequencyPer      string
	BillingFrequencyUnit     string
	BillingFrequencyQuantity string
	SetupChargeCode          string
	SetupChargeAmount        decimal.Decimal
	RecurringChargeCode      string
	RecurringChargeAmount    decimal.Decimal
	CreatedDatetime          time.Time
	Items                    []PlanItem
}

// PlanItem is a tracked item configured on a plan.
type PlanItem struct {
	ID               string
	Code             string
	Name             string
	QuantityIncluded decimal.Decimal
	IsPeriodic       bool
	OverageAmount    decimal.Decimal
	CreatedDatetime  time.Time
}

// Customer is a billed customer. Code is the caller-assigned business key,
// ID is the identifier the provider assigns.
type Customer struct {
	ID               string
	Code             string
	FirstName        string
	LastName         string
	Company          string
	Notes            string
	Email            string
	GatewayToken     string
	CreatedDatetime  time.Time
	ModifiedDatetime time.Time
	Subscriptions    []Subscription
}

// Subscription is a customer's subscription to a plan, including the
// payment-method display fields the provider exposes.
type Subscription struct {
	ID               string
	Plans            []SubscriptionPlan
	GatewayToken     string
	CCFirstName      string
	CCLastName       string
	CCZip            string
	CCType           string
	CCLastFour       *int
	CCExpirationDate *time.Time
	CanceledDatetime *time.Time
	CreatedDatetime  time.Time
	Items            []SubscriptionItem
	Invoices         []Invoice
}

// IsActive reports whether the subscription has not been canceled.
func (s *Subscription) IsActive() bool {
	return s.CanceledDatetime == nil
}

// SubscriptionItem is the current usage counter for one tracked item.
type SubscriptionItem struct {
	ID               string
	Code             string
	Name             string
	Quantity         int
	CreatedDatetime  *time.Time
	ModifiedDatetime *time.Time
}

// Invoice is a billing statement for one subscription period.
type Invoice struct {
	ID                string
	Number            int
	Type              string
	BillingDatetime   time.Time
	PaidTransactionID *string
	CreatedDatetime   time.Time
	Charges           []Charge
	Transactions      []Transaction
}

// Charge is a single line on an invoice. ID is absent for pending charges.
type Charge struct {
	ID              *string
	Code            string
	Type            string
	Quantity        int
	EachAmount      decimal.Decimal
	Description     string
	CreatedDatetime time.Time
}

// Transaction is a gateway transaction attempt recorded on an invoice.
type Transaction struct {
	ID       *string
	Response string
}

// CGError is one business-rule error the provider embeds in a response
// document. The provider may return these alongside parsed entities as
// well as inside HTTP error payloads.
type CGError struct {
	ID      string
	Code    string
	AuxCode string
	Message string
}
