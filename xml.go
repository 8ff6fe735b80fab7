package cheddargetter

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

// Wire shapes for the provider's XML documents. Everything is decoded as a
// string first; conversion to typed values happens in the build functions so
// blank optional elements can be mapped to absent values instead of failing
// a scalar conversion.

type plansXML struct {
	XMLName xml.Name  `xml:"plans"`
	Plans   []planXML `xml:"plan"`
}

type planXML struct {
	ID                       string        `xml:"id,attr"`
	Code                     string        `xml:"code,attr"`
	Name                     string        `xml:"name"`
	Description              string        `xml:"description"`
	IsActive                 string        `xml:"isActive"`
	TrialDays                string        `xml:"trialDays"`
	BillingFrequency         string        `xml:"billingFrequency"`
	BillingFrequencyPer      string        `xml:"billingFrequencyPer"`
	BillingFrequencyUnit     string        `xml:"billingFrequencyUnit"`
	BillingFrequencyQuantity string        `xml:"billingFrequencyQuantity"`
	SetupChargeCode          string        `xml:"setupChargeCode"`
	SetupChargeAmount        string        `xml:"setupChargeAmount"`
	RecurringChargeCode      string        `xml:"recurringChargeCode"`
	RecurringChargeAmount    string        `xml:"recurringChargeAmount"`
	CreatedDatetime          string        `xml:"createdDatetime"`
	Items                    []planItemXML `xml:"items>item"`
}

type planItemXML struct {
	ID               string `xml:"id,attr"`
	Code             string `xml:"code,attr"`
	Name             string `xml:"name"`
	QuantityIncluded string `xml:"quantityIncluded"`
	IsPeriodic       string `xml:"isPeriodic"`
	OverageAmount    string `xml:"overageAmount"`
	CreatedDatetime  string `xml:"createdDatetime"`
}

type customersXML struct {
	XMLName   xml.Name      `xml:"customers"`
	Customers []customerXML `xml:"customer"`
}

type customerXML struct {
	ID               string            `xml:"id,attr"`
	Code             string            `xml:"code,attr"`
	FirstName        string            `xml:"firstName"`
	LastName         string            `xml:"lastName"`
	Company          string            `xml:"company"`
	Notes            string            `xml:"notes"`
	Email            string            `xml:"email"`
	GatewayToken     string            `xml:"gatewayToken"`
	CreatedDatetime  string            `xml:"createdDatetime"`
	ModifiedDatetime string            `xml:"modifiedDatetime"`
	Subscriptions    []subscriptionXML `xml:"subscriptions>subscription"`
}

type subscriptionXML struct {
	ID               string                `xml:"id,attr"`
	Plans            []planXML             `xml:"plans>plan"`
	GatewayToken     string                `xml:"gatewayToken"`
	CCFirstName      string                `xml:"ccFirstName"`
	CCLastName       string                `xml:"ccLastName"`
	CCZip            string                `xml:"ccZip"`
	CCType           string                `xml:"ccType"`
	CCLastFour       string                `xml:"ccLastFour"`
	CCExpirationDate string                `xml:"ccExpirationDate"`
	CanceledDatetime string                `xml:"canceledDatetime"`
	CreatedDatetime  string                `xml:"createdDatetime"`
	Items            []subscriptionItemXML `xml:"items>item"`
	Invoices         []invoiceXML          `xml:"invoices>invoice"`
}

type subscriptionItemXML struct {
	ID               string `xml:"id,attr"`
	Code             string `xml:"code,attr"`
	Name             string `xml:"name"`
	Quantity         string `xml:"quantity"`
	CreatedDatetime  string `xml:"createdDatetime"`
	ModifiedDatetime string `xml:"modifiedDatetime"`
}

type invoicesXML struct {
	XMLName  xml.Name     `xml:"invoices"`
	Invoices []invoiceXML `xml:"invoice"`
}

type invoiceXML struct {
	ID                string           `xml:"id,attr"`
	Number            string           `xml:"number"`
	Type              string           `xml:"type"`
	BillingDatetime   string           `xml:"billingDatetime"`
	PaidTransactionID string           `xml:"paidTransactionId"`
	CreatedDatetime   string           `xml:"createdDatetime"`
	Charges           []chargeXML      `xml:"charges>charge"`
	Transactions      []transactionXML `xml:"transactions>transaction"`
}

type chargeXML struct {
	ID              string `xml:"id,attr"`
	Code            string `xml:"code,attr"`
	Type            string `xml:"type"`
	Quantity        string `xml:"quantity"`
	EachAmount      string `xml:"eachAmount"`
	Description     string `xml:"description"`
	CreatedDatetime string `xml:"createdDatetime"`
}

type transactionXML struct {
	ID       string `xml:"id,attr"`
	Response string `xml:"response"`
}

type errorXML struct {
	ID      string `xml:"id,attr"`
	Code    string `xml:"code,attr"`
	AuxCode string `xml:"auxCode,attr"`
	Message string `xml:",chardata"`
}

// parseEmbeddedErrors collects every <error> element in the document,
// wherever it appears. It runs independently of entity decoding: a document
// that is nothing but an error payload still yields its error list, and a
// malformed entity element never suppresses errors collected before the
// decoder gave up. It never fails; on broken XML it returns what it saw.
func parseEmbeddedErrors(raw []byte) []CGError {
	var cgErrs []CGError

	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return cgErrs
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "error" {
			continue
		}

		var w errorXML
		if err := dec.DecodeElement(&w, &se); err != nil {
			return cgErrs
		}
		cgErrs = append(cgErrs, CGError{
			ID:      w.ID,
			Code:    w.Code,
			AuxCode: w.AuxCode,
			Message: strings.TrimSpace(w.Message),
		})
	}
}

// documentRoot returns the name of the document's root element.
func documentRoot(raw []byte) (xml.Name, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.Name{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name, nil
		}
	}
}

// parsePlansResponse maps a plans document into SubscriptionPlan values plus
// the embedded error list. A document rooted at something other than <plans>
// (an error payload) yields an empty plan list, not a fault.
func parsePlansResponse(raw []byte) ([]SubscriptionPlan, []CGError, error) {
	cgErrs := parseEmbeddedErrors(raw)

	root, err := documentRoot(raw)
	if err != nil {
		return nil, cgErrs, ierr.WithError(err).
			WithHint("Provider returned a malformed XML document").
			Mark(ierr.ErrParse)
	}
	if root.Local != "plans" {
		return []SubscriptionPlan{}, cgErrs, nil
	}

	var doc plansXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, cgErrs, ierr.WithError(err).
			WithHint("Provider returned a malformed plans document").
			Mark(ierr.ErrParse)
	}

	plans := make([]SubscriptionPlan, 0, len(doc.Plans))
	for _, w := range doc.Plans {
		plan, err := buildPlan(w)
		if err != nil {
			return nil, cgErrs, err
		}
		plans = append(plans, plan)
	}
	return plans, cgErrs, nil
}

// parseCustomersResponse maps a customers document into Customer values plus
// the embedded error list.
func parseCustomersResponse(raw []byte) ([]Customer, []CGError, error) {
	cgErrs := parseEmbeddedErrors(raw)

	root, err := documentRoot(raw)
	if err != nil {
		return nil, cgErrs, ierr.WithError(err).
			WithHint("Provider returned a malformed XML document").
			Mark(ierr.ErrParse)
	}
	if root.Local != "customers" {
		return []Customer{}, cgErrs, nil
	}

	var doc customersXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, cgErrs, ierr.WithError(err).
			WithHint("Provider returned a malformed customers document").
			Mark(ierr.ErrParse)
	}

	customers := make([]Customer, 0, len(doc.Customers))
	for _, w := range doc.Customers {
		customer, err := buildCustomer(w)
		if err != nil {
			return nil, cgErrs, err
		}
		customers = append(customers, customer)
	}
	return customers, cgErrs, nil
}

// parseInvoicesResponse maps either a customers document (the shape returned
// by the get-customer-by-id call, with invoices nested under subscriptions)
// or a bare invoices document into a flat Invoice list.
func parseInvoicesResponse(raw []byte) ([]Invoice, []CGError, error) {
	cgErrs := parseEmbeddedErrors(raw)

	root, err := documentRoot(raw)
	if err != nil {
		return nil, cgErrs, ierr.WithError(err).
			WithHint("Provider returned a malformed XML document").
			Mark(ierr.ErrParse)
	}

	switch root.Local {
	case "customers":
		customers, _, err := parseCustomersResponse(raw)
		if err != nil {
			return nil, cgErrs, err
		}
		invoices := lo.FlatMap(customers, func(c Customer, _ int) []Invoice {
			return lo.FlatMap(c.Subscriptions, func(s Subscription, _ int) []Invoice {
				return s.Invoices
			})
		})
		if invoices == nil {
			invoices = []Invoice{}
		}
		return invoices, cgErrs, nil
	case "invoices":
		var doc invoicesXML
		if err := xml.Unmarshal(raw, &doc); err != nil {
			return nil, cgErrs, ierr.WithError(err).
				WithHint("Provider returned a malformed invoices document").
				Mark(ierr.ErrParse)
		}
		invoices := make([]Invoice, 0, len(doc.Invoices))
		for _, w := range doc.Invoices {
			invoice, err := buildInvoice(w)
			if err != nil {
				return nil, cgErrs, err
			}
			invoices = append(invoices, invoice)
		}
		return invoices, cgErrs, nil
	default:
		return []Invoice{}, cgErrs, nil
	}
}

func buildPlan(w planXML) (SubscriptionPlan, error) {
	var plan SubscriptionPlan

	if w.ID == "" {
		return plan, missingField("plan", "id")
	}
	if w.Code == "" {
		return plan, missingField("plan", "code")
	}

	isActive, err := wireBool(w.IsActive, "plan", "isActive")
	if err != nil {
		return plan, err
	}
	trialDays, err := wireInt(w.TrialDays, "plan", "trialDays")
	if err != nil {
		return plan, err
	}
	setupAmount, err := wireDecimal(w.SetupChargeAmount, "plan", "setupChargeAmount")
	if err != nil {
		return plan, err
	}
	recurringAmount, err := wireDecimal(w.RecurringChargeAmount, "plan", "recurringChargeAmount")
	if err != nil {
		return plan, err
	}
	created, err := wireTime(w.CreatedDatetime, "plan", "createdDatetime")
	if err != nil {
		return plan, err
	}

	items := make([]PlanItem, 0, len(w.Items))
	for _, wi := range w.Items {
		item, err := buildPlanItem(wi)
		if err != nil {
			return plan, err
		}
		items = append(items, item)
	}

	return SubscriptionPlan{
		ID:                       w.ID,
		Code:                     w.Code,
		Name:                     w.Name,
		Description:              w.Description,
		IsActive:                 isActive,
		TrialDays:                trialDays,
		BillingFrequency:         w.BillingFrequency,
		BillingFrequencyPer:      w.BillingFrequencyPer,
		BillingFrequencyUnit:     w.BillingFrequencyUnit,
		BillingFrequencyQuantity: w.BillingFrequencyQuantity,
		SetupChargeCode:          w.SetupChargeCode,
		SetupChargeAmount:        setupAmount,
		RecurringChargeCode:      w.RecurringChargeCode,
		RecurringChargeAmount:    recurringAmount,
		CreatedDatetime:          created,
		Items:                    items,
	}, nil
}

func buildPlanItem(w planItemXML) (PlanItem, error) {
	var item PlanItem

	if w.ID == "" {
		return item, missingField("plan item", "id")
	}
	if w.Code == "" {
		return item, missingField("plan item", "code")
	}

	quantityIncluded, err := wireDecimal(w.QuantityIncluded, "plan item", "quantityIncluded")
	if err != nil {
		return item, err
	}
	isPeriodic, err := wireBool(w.IsPeriodic, "plan item", "isPeriodic")
	if err != nil {
		return item, err
	}
	overageAmount, err := wireDecimal(w.OverageAmount, "plan item", "overageAmount")
	if err != nil {
		return item, err
	}
	created, err := wireTime(w.CreatedDatetime, "plan item", "createdDatetime")
	if err != nil {
		return item, err
	}

	return PlanItem{
		ID:               w.ID,
		Code:             w.Code,
		Name:             w.Name,
		QuantityIncluded: quantityIncluded,
		IsPeriodic:       isPeriodic,
		OverageAmount:    overageAmount,
		CreatedDatetime:  created,
	}, nil
}

func buildCustomer(w customerXML) (Customer, error) {
	var customer Customer

	if w.ID == "" {
		return customer, missingField("customer", "id")
	}
	if w.Code == "" {
		return customer, missingField("customer", "code")
	}

	created, err := wireTime(w.CreatedDatetime, "customer", "createdDatetime")
	if err != nil {
		return customer, err
	}
	modified, err := wireTime(w.ModifiedDatetime, "customer", "modifiedDatetime")
	if err != nil {
		return customer, err
	}

	subscriptions := make([]Subscription, 0, len(w.Subscriptions))
	for _, ws := range w.Subscriptions {
		subscription, err := buildSubscription(ws)
		if err != nil {
			return customer, err
		}
		subscriptions = append(subscriptions, subscription)
	}

	return Customer{
		ID:               w.ID,
		Code:             w.Code,
		FirstName:        w.FirstName,
		LastName:         w.LastName,
		Company:          w.Company,
		Notes:            w.Notes,
		Email:            w.Email,
		GatewayToken:     w.GatewayToken,
		CreatedDatetime:  created,
		ModifiedDatetime: modified,
		Subscriptions:    subscriptions,
	}, nil
}

func buildSubscription(w subscriptionXML) (Subscription, error) {
	var subscription Subscription

	if w.ID == "" {
		return subscription, missingField("subscription", "id")
	}

	ccLastFour, err := optionalInt(w.CCLastFour, "subscription", "ccLastFour")
	if err != nil {
		return subscription, err
	}
	ccExpiration, err := optionalTime(w.CCExpirationDate, "subscription", "ccExpirationDate")
	if err != nil {
		return subscription, err
	}
	canceled, err := optionalTime(w.CanceledDatetime, "subscription", "canceledDatetime")
	if err != nil {
		return subscription, err
	}
	created, err := wireTime(w.CreatedDatetime, "subscription", "createdDatetime")
	if err != nil {
		return subscription, err
	}

	plans := make([]SubscriptionPlan, 0, len(w.Plans))
	for _, wp := range w.Plans {
		plan, err := buildPlan(wp)
		if err != nil {
			return subscription, err
		}
		plans = append(plans, plan)
	}

	items := make([]SubscriptionItem, 0, len(w.Items))
	for _, wi := range w.Items {
		item, err := buildSubscriptionItem(wi)
		if err != nil {
			return subscription, err
		}
		items = append(items, item)
	}

	invoices := make([]Invoice, 0, len(w.Invoices))
	for _, wi := range w.Invoices {
		invoice, err := buildInvoice(wi)
		if err != nil {
			return subscription, err
		}
		invoices = append(invoices, invoice)
	}

	return Subscription{
		ID:               w.ID,
		Plans:            plans,
		GatewayToken:     w.GatewayToken,
		CCFirstName:      w.CCFirstName,
		CCLastName:       w.CCLastName,
		CCZip:            w.CCZip,
		CCType:           w.CCType,
		CCLastFour:       ccLastFour,
		CCExpirationDate: ccExpiration,
		CanceledDatetime: canceled,
		CreatedDatetime:  created,
		Items:            items,
		Invoices:         invoices,
	}, nil
}

func buildSubscriptionItem(w subscriptionItemXML) (SubscriptionItem, error) {
	var item SubscriptionItem

	if w.ID == "" {
		return item, missingField("subscription item", "id")
	}
	if w.Code == "" {
		return item, missingField("subscription item", "code")
	}

	quantity, err := wireInt(w.Quantity, "subscription item", "quantity")
	if err != nil {
		return item, err
	}
	created, err := optionalTime(w.CreatedDatetime, "subscription item", "createdDatetime")
	if err != nil {
		return item, err
	}
	modified, err := optionalTime(w.ModifiedDatetime, "subscription item", "modifiedDatetime")
	if err != nil {
		return item, err
	}

	return SubscriptionItem{
		ID:               w.ID,
		Code:             w.Code,
		Name:             w.Name,
		Quantity:         quantity,
		CreatedDatetime:  created,
		ModifiedDatetime: modified,
	}, nil
}

func buildInvoice(w invoiceXML) (Invoice, error) {
	var invoice Invoice

	if w.ID == "" {
		return invoice, missingField("invoice", "id")
	}

	number, err := wireInt(w.Number, "invoice", "number")
	if err != nil {
		return invoice, err
	}
	billing, err := wireTime(w.BillingDatetime, "invoice", "billingDatetime")
	if err != nil {
		return invoice, err
	}
	created, err := wireTime(w.CreatedDatetime, "invoice", "createdDatetime")
	if err != nil {
		return invoice, err
	}

	charges := make([]Charge, 0, len(w.Charges))
	for _, wc := range w.Charges {
		charge, err := buildCharge(wc)
		if err != nil {
			return invoice, err
		}
		charges = append(charges, charge)
	}

	transactions := lo.Map(w.Transactions, func(wt transactionXML, _ int) Transaction {
		return Transaction{
			ID:       optionalString(wt.ID),
			Response: wt.Response,
		}
	})
	if transactions == nil {
		transactions = []Transaction{}
	}

	return Invoice{
		ID:                w.ID,
		Number:            number,
		Type:              w.Type,
		BillingDatetime:   billing,
		PaidTransactionID: optionalString(w.PaidTransactionID),
		CreatedDatetime:   created,
		Charges:           charges,
		Transactions:      transactions,
	}, nil
}

func buildCharge(w chargeXML) (Charge, error) {
	var charge Charge

	quantity, err := wireInt(w.Quantity, "charge", "quantity")
	if err != nil {
		return charge, err
	}
	eachAmount, err := wireDecimal(w.EachAmount, "charge", "eachAmount")
	if err != nil {
		return charge, err
	}
	created, err := wireTime(w.CreatedDatetime, "charge", "createdDatetime")
	if err != nil {
		return charge, err
	}

	return Charge{
		ID:              optionalString(w.ID),
		Code:            w.Code,
		Type:            w.Type,
		Quantity:        quantity,
		EachAmount:      eachAmount,
		Description:     w.Description,
		CreatedDatetime: created,
	}, nil
}

// Scalar conversion helpers. Required scalars fail the parse when blank or
// malformed; optional ones map blank element text to nil.

func missingField(entity, field string) error {
	return ierr.NewError("missing required field").
		WithHintf("Provider response omitted %s %s", entity, field).
		Mark(ierr.ErrParse)
}

func malformedField(entity, field, value string, err error) error {
	return ierr.WithError(err).
		WithHintf("Provider response carried a malformed %s %s", entity, field).
		WithReportableDetails(map[string]any{
			"value": value,
		}).
		Mark(ierr.ErrParse)
}

func wireBool(v, entity, field string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, missingField(entity, field)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, malformedField(entity, field, v, err)
	}
	return b, nil
}

func wireInt(v, entity, field string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, missingField(entity, field)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, malformedField(entity, field, v, err)
	}
	return n, nil
}

func wireDecimal(v, entity, field string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, missingField(entity, field)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, malformedField(entity, field, v, err)
	}
	return d, nil
}

func wireTime(v, entity, field string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, missingField(entity, field)
	}
	t, err := parseTimestamp(v)
	if err != nil {
		return time.Time{}, malformedField(entity, field, v, err)
	}
	return t, nil
}

func optionalTime(v, entity, field string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := parseTimestamp(v)
	if err != nil {
		return nil, malformedField(entity, field, v, err)
	}
	return &t, nil
}

func optionalInt(v, entity, field string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, malformedField(entity, field, v, err)
	}
	return &n, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// parseTimestamp accepts the RFC3339 datetimes the provider normally emits
// and the bare dates it uses for billing periods.
func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
