package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	return DefaultScenario().BuildCatalog()
}

func TestParsePID(t *testing.T) {
	codes, err := ParsePID("101.201.301.403")
	require.NoError(t, err)
	assert.Equal(t, "101", codes.TypeCode)
	assert.Equal(t, "201", codes.BrandCode)
	assert.Equal(t, "301", codes.TreadCode)
	assert.Equal(t, "403", codes.SizeCode)
}

func TestParsePID_Malformed(t *testing.T) {
	tests := []struct {
		name string
		pid  string
	}{
		{"too few fields", "101.201.301"},
		{"too many fields", "101.201.301.403.999"},
		{"empty", ""},
		{"two-digit code", "11.201.301.403"},
		{"four-digit code", "1011.201.301.403"},
		{"letters", "1a1.201.301.403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePID(tt.pid)
			var orderErr *InvalidOrderError
			require.Error(t, err)
			assert.True(t, errors.As(err, &orderErr))
		})
	}
}

func TestNewTyreOrder_ResolvesCatalog(t *testing.T) {
	order, err := NewTyreOrder(testCatalog(t), "101.201.301.403", 4)
	require.NoError(t, err)

	assert.Equal(t, ResilientSoftBond, order.Variant)
	assert.Equal(t, "Duratrac", order.Brand)
	assert.Equal(t, "Smooth", order.Tread)
	assert.Equal(t, SizeLarge, order.Size)
	assert.Equal(t, 4, order.Quantity)
}

func TestNewTyreOrder_UnknownTypeCode(t *testing.T) {
	// Code 999 maps to no known tyre type; the order must be rejected
	// before any unit exists.
	_, err := NewTyreOrder(testCatalog(t), "999.201.301.403", 1)

	var orderErr *InvalidOrderError
	require.Error(t, err)
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, "tyre-type", orderErr.Field)
}

func TestNewTyreOrder_UnknownCodes(t *testing.T) {
	tests := []struct {
		name      string
		pid       string
		wantField string
	}{
		{"brand", "101.999.301.403", "brand"},
		{"tread", "101.201.999.403", "tread"},
		{"size", "101.201.301.999", "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTyreOrder(testCatalog(t), tt.pid, 1)
			var orderErr *InvalidOrderError
			require.Error(t, err)
			require.True(t, errors.As(err, &orderErr))
			assert.Equal(t, tt.wantField, orderErr.Field)
		})
	}
}

func TestNewTyreOrder_NonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -3} {
		_, err := NewTyreOrder(testCatalog(t), "101.201.301.403", qty)
		var orderErr *InvalidOrderError
		require.Error(t, err)
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, "quantity", orderErr.Field)
	}
}

func TestNewTyreOrder_TwoVariantSetRejectsBasic(t *testing.T) {
	scn := DefaultScenario()
	scn.VariantSet = VariantSetTwo
	catalog := scn.BuildCatalog()

	_, err := NewTyreOrder(catalog, "103.201.301.402", 1)
	var orderErr *InvalidOrderError
	require.Error(t, err)
	assert.True(t, errors.As(err, &orderErr))

	_, err = NewTyreOrder(catalog, "102.201.301.402", 1)
	assert.NoError(t, err)
}

func TestExpandOrders_FanOut(t *testing.T) {
	catalog := testCatalog(t)
	first, err := NewTyreOrder(catalog, "101.201.301.403", 3)
	require.NoError(t, err)
	second, err := NewTyreOrder(catalog, "102.202.302.401", 2)
	require.NoError(t, err)

	units := ExpandOrders([]*TyreOrder{first, second})

	require.Len(t, units, 5)
	for i, unit := range units {
		assert.Equal(t, i, unit.Index, "creation order preserved")
		assert.Equal(t, UnitQueued, unit.State)
		assert.Empty(t, unit.Serial, "serial only assigned at build start")
	}
	for _, unit := range units[:3] {
		assert.Same(t, first, unit.Order)
	}
	for _, unit := range units[3:] {
		assert.Same(t, second, unit.Order)
	}
}
