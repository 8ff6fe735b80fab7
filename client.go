// Package cheddargetter is a client for the CheddarGetter subscription
// billing API. It speaks the provider's REST-over-XML wire format: paths of
// the form /{resource}/{action}/productCode/{code}/..., Basic-authenticated
// GET and form-urlencoded POST requests, and XML response documents mapped
// into typed entities plus the provider's embedded business-error records.
package cheddargetter

import (
	"context"
	"time"

	"github.com/flexprice/cheddargetter-go/httpclient"
	"github.com/flexprice/cheddargetter-go/internal/validator"
	"github.com/flexprice/cheddargetter-go/logger"
)

// DefaultBaseURL is the provider's production endpoint.
const DefaultBaseURL = "https://www.getcheddar.com/xml"

// CheddarClient defines the operations the provider exposes.
//
// Read and write operations that return entities also return the list of
// business-rule errors the provider embedded in the response document. The
// two are independent: the error list can be non-empty even when entities
// parsed successfully, and vice versa.
type CheddarClient interface {
	GetSubscriptionPlans(ctx context.Context) ([]SubscriptionPlan, []CGError, error)

	GetCustomers(ctx context.Context) ([]Customer, []CGError, error)
	GetCustomer(ctx context.Context, customerCode string) (*Customer, []CGError, error)
	GetInvoices(ctx context.Context, customerID string) ([]Invoice, []CGError, error)

	CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, []CGError, error)
	CreateCustomerWithCreditCard(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error)
	CreateCustomerWithPayPal(ctx context.Context, req *CustomerSubscriptionRequest, returnURL, cancelURL string) (*Customer, []CGError, error)
	UpdateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, []CGError, error)
	UpdateCustomerAndSubscription(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error)
	UpdateSubscription(ctx context.Context, req *CustomerSubscriptionRequest) (*Customer, []CGError, error)
	UpdateSubscriptionPlanOnly(ctx context.Context, customerCode, newPlanCode string) (*Customer, []CGError, error)
	CancelSubscription(ctx context.Context, customerCode string) error
	DeleteCustomer(ctx context.Context, customerCode string) error

	AddItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error)
	RemoveItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error)
	SetItem(ctx context.Context, customerCode, itemCode string, quantity int) (*Customer, []CGError, error)

	RefundCharge(ctx context.Context, req *RefundRequest) (*Customer, []CGError, error)
	IssueVoid(ctx context.Context, req *VoidRequest) (*Customer, []CGError, error)
	AddCustomCharge(ctx context.Context, req *CustomChargeRequest) (*Customer, []CGError, error)
}

// Config holds the immutable settings fixed at construction.
type Config struct {
	ProductCode string `validate:"required"`
	Username    string `validate:"required"`
	Password    string `validate:"required"`

	// BaseURL overrides the provider endpoint. Defaults to DefaultBaseURL.
	BaseURL string
	// Timeout bounds each round trip. Defaults to httpclient.DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient httpclient.Client
}

func (c *Config) Validate() error {
	return validator.ValidateRequest(c)
}

// Client implements CheddarClient. It holds no per-call state, so a single
// instance is safe for concurrent use.
type Client struct {
	config     Config
	httpClient httpclient.Client
	logger     *logger.Logger
}

// NewClient creates a new CheddarGetter client. A nil logger keeps the
// client silent.
func NewClient(config Config, log *logger.Logger) (CheddarClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = httpclient.NewDefaultClient(config.Timeout)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		config:     config,
		httpClient: config.HTTPClient,
		logger:     log,
	}, nil
}

// firstCustomer returns the first parsed customer, or nil when the provider
// returned none.
func firstCustomer(customers []Customer) *Customer {
	if len(customers) == 0 {
		return nil
	}
	return &customers[0]
}
