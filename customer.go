package cheddargetter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

// GetCustomers returns every customer for the product code.
func (c *Client) GetCustomers(ctx context.Context) ([]Customer, []CGError, error) {
	path := fmt.Sprintf("/customers/get/productCode/%s", c.config.ProductCode)

	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	customers, cgErrs, err := parseCustomersResponse(raw)
	if err != nil {
		return nil, cgErrs, err
	}

	c.logger.Debugw("fetched customers",
		"product_code", c.config.ProductCode,
		"count", len(customers))
	return customers, cgErrs, nil
}

// GetCustomer returns the customer with the given code, or nil when the
// provider returned none.
func (c *Client) GetCustomer(ctx context.Context, customerCode string) (*Customer, []CGError, error) {
	if customerCode == "" {
		return nil, nil, ierr.NewError("missing customer code").
			WithHint("A customer code is required").
			Mark(ierr.ErrValidation)
	}

	path := fmt.Sprintf("/customers/get/productCode/%s/code/%s", c.config.ProductCode, customerCode)

	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	customers, cgErrs, err := parseCustomersResponse(raw)
	if err != nil {
		return nil, cgErrs, err
	}
	return firstCustomer(customers), cgErrs, nil
}

// CreateCustomer creates a customer without payment details.
func (c *Client) CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/new/productCode/%s", c.config.ProductCode)
	body := new(paramBuilder).
		add("code", req.Code).
		add("firstName", req.FirstName).
		add("lastName", req.LastName).
		add("email", req.Email).
		add("company", req.Company).
		add("notes", req.Notes).
		add("subscription[planCode]", req.PlanCode).
		add("remoteAddress", req.RemoteAddress).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("creating customer",
		"customer_code", req.Code,
		"plan_code", req.PlanCode)
	return c.postCustomer(ctx, path, body)
}

// CreateCustomerWithCreditCard creates a customer with an attached credit
// card subscription. CCExpiration carries the pre-joined "MM/YYYY" value.
func (c *Client) CreateCustomerWithCreditCard(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/new/productCode/%s", c.config.ProductCode)
	body := new(paramBuilder).
		add("code", req.Code).
		add("firstName", req.FirstName).
		add("lastName", req.LastName).
		add("email", req.Email).
		add("company", req.Company).
		add("notes", req.Notes).
		add("subscription[planCode]", req.PlanCode).
		add("subscription[ccFirstName]", req.CCFirstName).
		add("subscription[ccLastName]", req.CCLastName).
		add("subscription[ccNumber]", req.CCNumber).
		add("subscription[ccExpiration]", req.CCExpiration).
		add("subscription[ccCardCode]", req.CCCardCode).
		add("subscription[ccZip]", req.CCZip).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("creating customer with credit card",
		"customer_code", req.Code,
		"plan_code", req.PlanCode)
	return c.postCustomer(ctx, path, body)
}

// CreateCustomerWithPayPal creates a customer whose subscription is paid via
// a PayPal redirect flow; the provider sends the buyer through returnURL or
// cancelURL after checkout.
func (c *Client) CreateCustomerWithPayPal(ctx context.Context, req *CustomerSubscriptionRequest, returnURL, cancelURL string) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/new/productCode/%s", c.config.ProductCode)
	body := new(paramBuilder).
		addRaw("subscription[method]=paypal").
		add("code", req.Code).
		add("firstName", req.FirstName).
		add("lastName", req.LastName).
		add("email", req.Email).
		add("subscription[planCode]", req.PlanCode).
		add("subscription[ccFirstName]", req.CCFirstName).
		add("subscription[ccLastName]", req.CCLastName).
		add("subscription[returnUrl]", returnURL).
		add("subscription[cancelUrl]", cancelURL).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("creating customer with paypal",
		"customer_code", req.Code,
		"plan_code", req.PlanCode)
	return c.postCustomer(ctx, path, body)
}

// UpdateCustomer updates customer-level fields only.
func (c *Client) UpdateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/edit-customer/productCode/%s/code/%s", c.config.ProductCode, req.Code)
	body := new(paramBuilder).
		add("firstName", req.FirstName).
		add("lastName", req.LastName).
		add("email", req.Email).
		add("company", req.Company).
		add("notes", req.Notes).
		add("remoteAddress", req.RemoteAddress).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("updating customer", "customer_code", req.Code)
	return c.postCustomer(ctx, path, body)
}

// UpdateCustomerAndSubscription updates customer fields and subscription
// payment details in one call. The expiration is joined from the separate
// month and year fields with the month zero-padded.
func (c *Client) UpdateCustomerAndSubscription(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/edit/productCode/%s/code/%s", c.config.ProductCode, req.Code)
	body := new(paramBuilder).
		add("firstName", req.FirstName).
		add("lastName", req.LastName).
		add("email", req.Email).
		add("company", req.Company).
		add("notes", req.Notes).
		add("subscription[planCode]", strings.ToUpper(req.PlanCode)).
		add("subscription[ccFirstName]", req.CCFirstName).
		add("subscription[ccLastName]", req.CCLastName).
		add("subscription[ccNumber]", req.CCNumber).
		add("subscription[ccExpiration]", joinExpiration(req.CCExpMonth, req.CCExpYear)).
		add("subscription[ccCardCode]", req.CCCardCode).
		add("subscription[ccZip]", req.CCZip).
		add("remoteAddress", req.RemoteAddress).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("updating customer and subscription", "customer_code", req.Code)
	return c.postCustomer(ctx, path, body)
}

// UpdateSubscription updates subscription payment details only. The
// parameters are not nested under subscription[] on this endpoint.
func (c *Client) UpdateSubscription(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("/customers/edit-subscription/productCode/%s/code/%s", c.config.ProductCode, req.Code)
	body := new(paramBuilder).
		add("planCode", req.PlanCode).
		add("ccFirstName", req.CCFirstName).
		add("ccLastName", req.CCLastName).
		add("ccNumber", req.CCNumber).
		add("ccExpiration", joinExpiration(req.CCExpMonth, req.CCExpYear)).
		add("ccCardCode", req.CCCardCode).
		add("ccZip", req.CCZip).
		add("remoteAddress", req.RemoteAddress).
		addMetadata(req.Metadata).
		encode()

	c.logger.Infow("updating subscription", "customer_code", req.Code)
	return c.postCustomer(ctx, path, body)
}

// UpdateSubscriptionPlanOnly moves the customer to a different plan. The
// plan code is upper-cased the way the provider expects.
func (c *Client) UpdateSubscriptionPlanOnly(ctx context.Context, customerCode, newPlanCode string) (*Customer, []CGError, error) {
	if customerCode == "" || newPlanCode == "" {
		return nil, nil, ierr.NewError("missing customer or plan code").
			WithHint("Both a customer code and a plan code are required").
			Mark(ierr.ErrValidation)
	}

	path := fmt.Sprintf("/customers/edit-subscription/productCode/%s/code/%s", c.config.ProductCode, customerCode)
	body := new(paramBuilder).
		add("planCode", strings.ToUpper(newPlanCode)).
		encode()

	c.logger.Infow("updating subscription plan",
		"customer_code", customerCode,
		"plan_code", newPlanCode)
	return c.postCustomer(ctx, path, body)
}

// CancelSubscription cancels the customer's subscription. Unlike the
// entity-returning calls, it fails with a *ProviderError when the provider
// embeds business errors in an otherwise successful response.
func (c *Client) CancelSubscription(ctx context.Context, customerCode string) error {
	if customerCode == "" {
		return ierr.NewError("missing customer code").
			WithHint("A customer code is required").
			Mark(ierr.ErrValidation)
	}

	path := fmt.Sprintf("/customers/cancel/productCode/%s/code/%s", c.config.ProductCode, customerCode)

	c.logger.Infow("canceling subscription", "customer_code", customerCode)
	return c.getExpectOK(ctx, path)
}

// DeleteCustomer deletes the customer entirely. Same error contract as
// CancelSubscription.
func (c *Client) DeleteCustomer(ctx context.Context, customerCode string) error {
	if customerCode == "" {
		return ierr.NewError("missing customer code").
			WithHint("A customer code is required").
			Mark(ierr.ErrValidation)
	}

	path := fmt.Sprintf("/customers/delete/productCode/%s/code/%s", c.config.ProductCode, customerCode)

	c.logger.Infow("deleting customer", "customer_code", customerCode)
	return c.getExpectOK(ctx, path)
}

// postCustomer posts a form body and maps the single-customer response that
// every write operation returns.
func (c *Client) postCustomer(ctx context.Context, path, body string) (*Customer, []CGError, error) {
	raw, err := c.post(ctx, path, body)
	if err != nil {
		return nil, nil, err
	}

	customers, cgErrs, err := parseCustomersResponse(raw)
	if err != nil {
		return nil, cgErrs, err
	}
	return firstCustomer(customers), cgErrs, nil
}

// getExpectOK runs a side-effecting GET (cancel, delete) and turns embedded
// business errors into a *ProviderError so completion of the round trip
// alone never counts as success.
func (c *Client) getExpectOK(ctx context.Context, path string) error {
	raw, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	if cgErrs := parseEmbeddedErrors(raw); len(cgErrs) > 0 {
		return newProviderError(http.StatusOK, cgErrs)
	}
	return nil
}

func joinExpiration(month, year string) string {
	if month == "" && year == "" {
		return ""
	}
	return formatExpiryMonth(month) + "/" + year
}
