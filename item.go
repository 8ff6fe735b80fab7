package cheddargetter

import (
	"context"
	"fmt"
	"strconv"

	ierr "github.com/flexprice/cheddargetter-go/internal/errors"
)

// AddItem increments a tracked item's quantity for the customer. Quantities
// of 1 or less omit the quantity parameter so the provider applies its
// default increment of 1; only quantities above 1 are sent explicitly.
func (c *Client) AddItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error) {
	return c.changeItemQuantity(ctx, "add-item-quantity", customerCode, itemCode, quantity)
}

// RemoveItem decrements a tracked item's quantity. Same quantity rule as
// AddItem: the provider defaults to decrementing by 1.
func (c *Client) RemoveItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error) {
	return c.changeItemQuantity(ctx, "remove-item-quantity", customerCode, itemCode, quantity)
}

// SetItem sets a tracked item's quantity to an absolute value. The quantity
// parameter is always sent, including an explicit 0.
func (c *Client) SetItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error) {
	if err := validateItemCall(customerCode, itemCode); err != nil {
		return nil, nil, err
	}

	path := itemPath(c.config.ProductCode, "set-item-quantity", customerCode, itemCode)
	body := new(paramBuilder).
		add("quantity", strconv.Itoa(quantity)).
		encode()

	c.logger.Infow("setting item quantity",
		"customer_code", customerCode,
		"item_code", itemCode,
		"quantity", quantity)
	return c.postCustomer(ctx, path, body)
}

// AddCustomCharge records a one-off charge against the customer's current
// invoice. The path goes through the set-item-quantity action with the
// charge parameters in the body.
func (c *Client) AddCustomCharge(ctx context.Context, req *CustomChargeRequest) (*Customer, []CGError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	path := itemPath(c.config.ProductCode, "set-item-quantity", req.CustomerCode, req.ItemCode)
	body := new(paramBuilder).
		add("chargeCode", req.ChargeCode).
		add("quantity", strconv.Itoa(req.Quantity)).
		add("eachAmount", req.EachAmount.String()).
		add("description", req.Description).
		encode()

	c.logger.Infow("adding custom charge",
		"customer_code", req.CustomerCode,
		"charge_code", req.ChargeCode,
		"each_amount", req.EachAmount)
	return c.postCustomer(ctx, path, body)
}

func (c *Client) changeItemQuantity(ctx context.Context, action, customerCode, itemCode string, quantity int) (*Customer, []CGError, error) {
	if err := validateItemCall(customerCode, itemCode); err != nil {
		return nil, nil, err
	}

	path := itemPath(c.config.ProductCode, action, customerCode, itemCode)
	body := ""
	if quantity > 1 {
		body = new(paramBuilder).
			add("quantity", strconv.Itoa(quantity)).
			encode()
	}

	c.logger.Infow("changing item quantity",
		"action", action,
		"customer_code", customerCode,
		"item_code", itemCode,
		"quantity", quantity)
	return c.postCustomer(ctx, path, body)
}

func itemPath(productCode, action, customerCode, itemCode string) string {
	return fmt.Sprintf("/customers/%s/productCode/%s/code/%s/itemCode/%s",
		action, productCode, customerCode, itemCode)
}

func validateItemCall(customerCode, itemCode string) error {
	if customerCode == "" || itemCode == "" {
		return ierr.NewError("missing customer or item code").
			WithHint("Both a customer code and an item code are required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
