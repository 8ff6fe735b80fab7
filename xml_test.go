package cheddargetter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

const plansDoc = `<?xml version="1.0" encoding="UTF-8"?>
<plans>
  <plan id="fd4dd4f8-cdb6-11e0-a1b1-40403c39f8d9" code="GOLD">
    <name>Gold</name>
    <description>Top tier</description>
    <isActive>1</isActive>
    <trialDays>14</trialDays>
    <billingFrequency>monthly</billingFrequency>
    <billingFrequencyPer>month</billingFrequencyPer>
    <billingFrequencyUnit>months</billingFrequencyUnit>
    <billingFrequencyQuantity>1</billingFrequencyQuantity>
    <setupChargeCode>GOLD_SETUP</setupChargeCode>
    <setupChargeAmount>25.00</setupChargeAmount>
    <recurringChargeCode>GOLD_RECURRING</recurringChargeCode>
    <recurringChargeAmount>99.95</recurringChargeAmount>
    <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
    <items>
      <item id="f4e2f2b0-cdb6-11e0-a1b1-40403c39f8d9" code="SEATS">
        <name>Seats</name>
        <quantityIncluded>2.5</quantityIncluded>
        <isPeriodic>0</isPeriodic>
        <overageAmount>5.00</overageAmount>
        <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
      </item>
    </items>
  </plan>
  <plan id="0b91631c-cdb7-11e0-a1b1-40403c39f8d9" code="FREE">
    <name>Free</name>
    <description></description>
    <isActive>1</isActive>
    <trialDays>0</trialDays>
    <billingFrequency>monthly</billingFrequency>
    <billingFrequencyPer>month</billingFrequencyPer>
    <billingFrequencyUnit>months</billingFrequencyUnit>
    <billingFrequencyQuantity>1</billingFrequencyQuantity>
    <setupChargeCode></setupChargeCode>
    <setupChargeAmount>0.00</setupChargeAmount>
    <recurringChargeCode>FREE_RECURRING</recurringChargeCode>
    <recurringChargeAmount>0.00</recurringChargeAmount>
    <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
  </plan>
</plans>`

const customersDoc = `<?xml version="1.0" encoding="UTF-8"?>
<customers>
  <customer id="7fd66ec8-cdb8-11e0-a1b1-40403c39f8d9" code="CUST_1">
    <firstName>Ada</firstName>
    <lastName>Lovelace</lastName>
    <company>Analytical Engines</company>
    <notes></notes>
    <email>ada@example.com</email>
    <gatewayToken>SIMULATED</gatewayToken>
    <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
    <modifiedDatetime>2011-08-02T09:00:00+00:00</modifiedDatetime>
    <subscriptions>
      <subscription id="7fd68b9c-cdb8-11e0-a1b1-40403c39f8d9">
        <plans>
          <plan id="fd4dd4f8-cdb6-11e0-a1b1-40403c39f8d9" code="GOLD">
            <name>Gold</name>
            <description>Top tier</description>
            <isActive>1</isActive>
            <trialDays>14</trialDays>
            <billingFrequency>monthly</billingFrequency>
            <billingFrequencyPer>month</billingFrequencyPer>
            <billingFrequencyUnit>months</billingFrequencyUnit>
            <billingFrequencyQuantity>1</billingFrequencyQuantity>
            <setupChargeCode></setupChargeCode>
            <setupChargeAmount>0.00</setupChargeAmount>
            <recurringChargeCode>GOLD_RECURRING</recurringChargeCode>
            <recurringChargeAmount>99.95</recurringChargeAmount>
            <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
          </plan>
        </plans>
        <gatewayToken>SIMULATED</gatewayToken>
        <ccFirstName>Ada</ccFirstName>
        <ccLastName>Lovelace</ccLastName>
        <ccZip>10001</ccZip>
        <ccType>visa</ccType>
        <ccLastFour>1111</ccLastFour>
        <ccExpirationDate></ccExpirationDate>
        <canceledDatetime></canceledDatetime>
        <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
        <items>
          <item id="f4e2f2b0-cdb6-11e0-a1b1-40403c39f8d9" code="SEATS">
            <name>Seats</name>
            <quantity>3</quantity>
            <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
            <modifiedDatetime></modifiedDatetime>
          </item>
        </items>
        <invoices>
          <invoice id="8ddf0centinvoice-cdb8-11e0" >
            <number>1</number>
            <type>subscription</type>
            <billingDatetime>2011-09-01T15:30:00+00:00</billingDatetime>
            <paidTransactionId></paidTransactionId>
            <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
            <charges>
              <charge id="" code="GOLD_RECURRING">
                <type>recurring</type>
                <quantity>1</quantity>
                <eachAmount>99.95</eachAmount>
                <description></description>
                <createdDatetime>2011-08-01T15:30:00+00:00</createdDatetime>
              </charge>
            </charges>
            <transactions>
              <transaction id="">
                <response>declined</response>
              </transaction>
            </transactions>
          </invoice>
        </invoices>
      </subscription>
    </subscriptions>
  </customer>
</customers>`

const errorDoc = `<?xml version="1.0" encoding="UTF-8"?>
<error id="73542" code="404" auxCode="">Customer not found</error>`

const embeddedErrorsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<customers>
  <errors>
    <error id="1234" code="412" auxCode="5000">Credit card number is not valid</error>
  </errors>
</customers>`

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestParsePlansResponse(t *testing.T) {
	plans, cgErrs, err := parsePlansResponse([]byte(plansDoc))
	require.NoError(t, err)
	assert.Empty(t, cgErrs)
	require.Len(t, plans, 2)

	gold := plans[0]
	assert.Equal(t, "fd4dd4f8-cdb6-11e0-a1b1-40403c39f8d9", gold.ID)
	assert.Equal(t, "GOLD", gold.Code)
	assert.Equal(t, "Gold", gold.Name)
	assert.True(t, gold.IsActive)
	assert.Equal(t, 14, gold.TrialDays)
	assert.True(t, gold.SetupChargeAmount.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, gold.RecurringChargeAmount.Equal(decimal.RequireFromString("99.95")))
	assert.Equal(t, mustTime(t, "2011-08-01T15:30:00+00:00"), gold.CreatedDatetime)

	require.Len(t, gold.Items, 1)
	seats := gold.Items[0]
	assert.Equal(t, "SEATS", seats.Code)
	assert.True(t, seats.QuantityIncluded.Equal(decimal.RequireFromString("2.5")))
	assert.False(t, seats.IsPeriodic)
	assert.True(t, seats.OverageAmount.Equal(decimal.RequireFromString("5.00")))

	// second plan has no <items> container at all
	assert.NotNil(t, plans[1].Items)
	assert.Empty(t, plans[1].Items)
}

func TestParsePlansResponseEmptyDocument(t *testing.T) {
	plans, cgErrs, err := parsePlansResponse([]byte(`<plans></plans>`))
	require.NoError(t, err)
	assert.Empty(t, cgErrs)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestParsePlansResponseErrorOnlyDocument(t *testing.T) {
	plans, cgErrs, err := parsePlansResponse([]byte(errorDoc))
	require.NoError(t, err)
	assert.Empty(t, plans)
	require.Len(t, cgErrs, 1)
	assert.Equal(t, "73542", cgErrs[0].ID)
	assert.Equal(t, "404", cgErrs[0].Code)
	assert.Equal(t, "Customer not found", cgErrs[0].Message)
}

func TestParsePlansResponseMissingID(t *testing.T) {
	doc := `<plans><plan code="GOLD"><name>Gold</name></plan></plans>`

	_, _, err := parsePlansResponse([]byte(doc))
	require.Error(t, err)
	assert.True(t, ierr.IsParse(err))
}

func TestParseCustomersResponse(t *testing.T) {
	customers, cgErrs, err := parseCustomersResponse([]byte(customersDoc))
	require.NoError(t, err)
	assert.Empty(t, cgErrs)
	require.Len(t, customers, 1)

	customer := customers[0]
	assert.Equal(t, "CUST_1", customer.Code)
	assert.Equal(t, "Ada", customer.FirstName)
	assert.Equal(t, "ada@example.com", customer.Email)
	assert.Equal(t, mustTime(t, "2011-08-02T09:00:00+00:00"), customer.ModifiedDatetime)

	require.Len(t, customer.Subscriptions, 1)
	subscription := customer.Subscriptions[0]
	require.NotNil(t, subscription.CCLastFour)
	assert.Equal(t, 1111, *subscription.CCLastFour)
	// present-but-empty optional elements map to absent, not zero values
	assert.Nil(t, subscription.CCExpirationDate)
	assert.Nil(t, subscription.CanceledDatetime)
	assert.True(t, subscription.IsActive())

	require.Len(t, subscription.Items, 1)
	item := subscription.Items[0]
	assert.Equal(t, 3, item.Quantity)
	require.NotNil(t, item.CreatedDatetime)
	assert.Nil(t, item.ModifiedDatetime)

	require.Len(t, subscription.Plans, 1)
	assert.Equal(t, "GOLD", subscription.Plans[0].Code)
}

func TestParseCustomersResponseInvoiceOptionals(t *testing.T) {
	customers, _, err := parseCustomersResponse([]byte(customersDoc))
	require.NoError(t, err)

	invoices := customers[0].Subscriptions[0].Invoices
	require.Len(t, invoices, 1)

	invoice := invoices[0]
	assert.Equal(t, 1, invoice.Number)
	assert.Nil(t, invoice.PaidTransactionID)

	require.Len(t, invoice.Charges, 1)
	charge := invoice.Charges[0]
	assert.Nil(t, charge.ID)
	assert.Equal(t, "GOLD_RECURRING", charge.Code)
	assert.Equal(t, 1, charge.Quantity)
	assert.True(t, charge.EachAmount.Equal(decimal.RequireFromString("99.95")))

	require.Len(t, invoice.Transactions, 1)
	assert.Nil(t, invoice.Transactions[0].ID)
	assert.Equal(t, "declined", invoice.Transactions[0].Response)
}

func TestParseCustomersResponseEmbeddedErrors(t *testing.T) {
	customers, cgErrs, err := parseCustomersResponse([]byte(embeddedErrorsDoc))
	require.NoError(t, err)
	assert.Empty(t, customers)
	require.Len(t, cgErrs, 1)
	assert.Equal(t, "412", cgErrs[0].Code)
	assert.Equal(t, "5000", cgErrs[0].AuxCode)
	assert.Equal(t, "Credit card number is not valid", cgErrs[0].Message)
}

func TestParseInvoicesResponseFromCustomersDocument(t *testing.T) {
	invoices, cgErrs, err := parseInvoicesResponse([]byte(customersDoc))
	require.NoError(t, err)
	assert.Empty(t, cgErrs)
	require.Len(t, invoices, 1)
	assert.Equal(t, "subscription", invoices[0].Type)
}

func TestParseInvoicesResponseErrorOnlyDocument(t *testing.T) {
	invoices, cgErrs, err := parseInvoicesResponse([]byte(errorDoc))
	require.NoError(t, err)
	assert.Empty(t, invoices)
	assert.Len(t, cgErrs, 1)
}

func TestParseEmbeddedErrorsMalformedDocument(t *testing.T) {
	// collection is best effort on broken XML, never a fault
	cgErrs := parseEmbeddedErrors([]byte(`<customers><errors><error id="1" code="500"`))
	assert.Empty(t, cgErrs)
}

func TestParseTimestampFormats(t *testing.T) {
	full, err := parseTimestamp("2011-08-01T15:30:00+00:00")
	require.NoError(t, err)
	assert.Equal(t, 2011, full.Year())

	dateOnly, err := parseTimestamp("2011-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.August, dateOnly.Month())

	_, err = parseTimestamp("not-a-date")
	assert.Error(t, err)
}
