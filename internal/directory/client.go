// Package directory holds the view-models behind the company list and the
// company detail page, and the Client contract they load data through.
package directory

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks Client

import (
	"context"
	"errors"

	"github.com/Makepad-fr/aidir/internal/model"
)

// Client is the read-only query surface of the remote data store.
// Implementations must be safe for concurrent use.
type Client interface {
	// ListCompanies returns summary rows ordered by name.
	ListCompanies(ctx context.Context) ([]model.Company, error)
	// GetCompany returns the full row, or ErrNotFound when no row matches.
	GetCompany(ctx context.Context, id string) (model.Company, error)
	// The related lists are scoped by company id and ordered by insertion.
	ListCustomers(ctx context.Context, companyID string) ([]model.Customer, error)
	ListProducts(ctx context.Context, companyID string) ([]model.Product, error)
	ListPricingPlans(ctx context.Context, companyID string) ([]model.PricingPlan, error)
}

// ErrNotFound is returned by GetCompany when the query succeeded with zero rows.
var ErrNotFound = errors.New("company not found")

// ServiceError reports that a call to the data store itself failed
// (connectivity, permissions, malformed query).
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Op + ": service error"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError wraps err as a ServiceError for op. A nil err stays nil and
// an existing ServiceError is not wrapped twice.
func NewServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Op: op, Err: err}
}

// IsServiceError reports whether err carries a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
