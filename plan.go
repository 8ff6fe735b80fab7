package cheddargetter

import (
	"context"
	"fmt"
)

// GetSubscriptionPlans returns every plan configured for the product code.
func (c *Client) GetSubscriptionPlans(ctx context.Context) ([]SubscriptionPlan, []CGError, error) {
	path := fmt.Sprintf("/plans/get/productCode/%s", c.config.ProductCode)

	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	plans, cgErrs, err := parsePlansResponse(raw)
	if err != nil {
		return nil, cgErrs, err
	}

	c.logger.Debugw("fetched subscription plans",
		"product_code", c.config.ProductCode,
		"count", len(plans))
	return plans, cgErrs, nil
}
