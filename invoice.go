package cheddargetter

import (
	"context"
	"fmt"
	"net/http"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

// GetInvoices returns every invoice for the customer identified by the
// provider's internal id. A customer the provider reports as not found
// yields a nil slice and no error, which is distinct from an existing
// customer with an empty invoice list.
func (c *Client) GetInvoices(ctx context.Context, customerID string) ([]Invoice, []CGError, error) {
	if customerID == "" {
		return nil, nil, ierr.NewError("missing customer id").
			WithHint("A customer id is required").
			Mark(ierr.ErrValidation)
	}

	path := fmt.Sprintf("/customers/get/productCode/%s/id/%s", c.config.ProductCode, customerID)

	raw, err := c.get(ctx, path)
	if err != nil {
		if providerErr, ok := AsProviderError(err); ok && providerErr.StatusCode == http.StatusNotFound {
			c.logger.Debugw("customer not found", "customer_id", customerID)
			return nil, nil, nil
		}
		return nil, nil, err
	}

	invoices, cgErrs, err := parseInvoicesResponse(raw)
	if err != nil {
		return nil, cgErrs, err
	}

	c.logger.Debugw("fetched invoices",
		"customer_id", customerID,
		"count", len(invoices))
	return invoices, cgErrs, nil
}

// RefundCharge refunds the given amount against a paid invoice and returns
// the affected customer.
func (c *Client) RefundCharge(ctx context.Context, req *RefundRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/invoices/refund/productCode/%s/", c.config.ProductCode)
	body := new(paramBuilder).
		add("number", req.InvoiceNumber).
		add("amount", req.Amount.String()).
		encode()

	c.logger.Infow("refunding charge",
		"invoice_number", req.InvoiceNumber,
		"amount", req.Amount)
	return c.postCustomer(ctx, path, body)
}

// IssueVoid voids an open invoice and returns the affected customer.
func (c *Client) IssueVoid(ctx context.Context, req *VoidRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/invoices/void/productCode/%s/", c.config.ProductCode)
	body := new(paramBuilder).
		add("number", req.InvoiceNumber).
		encode()

	c.logger.Infow("voiding invoice", "invoice_number", req.InvoiceNumber)
	return c.postCustomer(ctx, path, body)
}
