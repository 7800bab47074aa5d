package taxrate

import "context"

// Repository is the queryable rate dataset. The engine only reads; the rows
// are maintained by an external administrative collaborator.
type Repository interface {
	// ListByScope returns the rows registered at exactly the given scope
	ListByScope(ctx context.Context, scope Scope) ([]*RateRow, error)

	// ListByCountry returns every row for a country across all scopes
	ListByCountry(ctx context.Context, countryCode string) ([]*RateRow, error)

	// ListAll returns the full dataset, for admin/receipt surfaces
	ListAll(ctx context.Context) ([]*RateRow, error)
}
