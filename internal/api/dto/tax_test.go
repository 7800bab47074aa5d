package dto

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendora/taxengine/internal/domain/sale"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/types"
	"github.com/vendora/taxengine/internal/validator"
)

func TestMain(m *testing.M) {
	validator.NewValidator()
	os.Exit(m.Run())
}

func validRequest() CalculateTaxRequest {
	return CalculateTaxRequest{
		Product:       sale.TaxableProduct{NativeType: types.ProductTypeStandard},
		PriceCents:    1000,
		BuyerLocation: sale.BuyerLocation{CountryCode: "ES"},
	}
}

func TestCalculateTaxRequestValidate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	req := validRequest()
	req.PriceCents = -1
	assert.True(t, ierr.IsValidation(req.Validate()))

	req = validRequest()
	req.ShippingCents = -1
	assert.True(t, ierr.IsValidation(req.Validate()))

	req = validRequest()
	req.Quantity = -1
	assert.True(t, ierr.IsValidation(req.Validate()))

	req = validRequest()
	req.Product.NativeType = "subscription"
	assert.True(t, ierr.IsValidation(req.Validate()))

	req = validRequest()
	req.BuyerLocation.CountryCode = ""
	assert.True(t, ierr.IsValidation(req.Validate()))
}

func TestNormalizedQuantity(t *testing.T) {
	req := validRequest()
	assert.Equal(t, int64(1), req.NormalizedQuantity())

	req.Quantity = 3
	assert.Equal(t, int64(3), req.NormalizedQuantity())
}
