package types

import (
	"slices"

	ierr "github.com/vendora/taxengine/internal/errors"
)

// ProductType is the native catalog type of the item being sold
type ProductType string

const (
	ProductTypeStandard   ProductType = "standard"
	ProductTypeCommission ProductType = "commission"
	ProductTypeMembership ProductType = "membership"
	ProductTypeBundle     ProductType = "bundle"
	ProductTypeCall       ProductType = "call"
)

func (t ProductType) String() string {
	return string(t)
}

func (t ProductType) Validate() error {
	allowedValues := []string{
		string(ProductTypeStandard),
		string(ProductTypeCommission),
		string(ProductTypeMembership),
		string(ProductTypeBundle),
		string(ProductTypeCall),
	}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid product type").
			WithHint("Product type must be one of standard, commission, membership, bundle or call").
			Mark(ierr.ErrValidation)
	}

	return nil
}
