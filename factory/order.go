package factory

import (
	"fmt"
	"strings"
)

// PIDCodes are the four dot-separated fields of a product identifier,
// in wire order: tyre-type, brand, tread pattern, size.
type PIDCodes struct {
	TypeCode  string
	BrandCode string
	TreadCode string
	SizeCode  string
}

// ParsePID splits and validates a product identifier of the form
// "ttt.bbb.ppp.sss". Each field must be a three-digit code. Catalog
// resolution happens separately; this only checks shape.
func ParsePID(pid string) (PIDCodes, error) {
	fields := strings.Split(pid, ".")
	if len(fields) != 4 {
		return PIDCodes{}, &InvalidOrderError{
			PID:    pid,
			Field:  "pid",
			Reason: fmt.Sprintf("expected 4 dot-separated fields, got %d", len(fields)),
		}
	}
	names := [4]string{"tyre-type", "brand", "tread", "size"}
	for i, f := range fields {
		if !isThreeDigitCode(f) {
			return PIDCodes{}, &InvalidOrderError{
				PID:    pid,
				Field:  names[i],
				Reason: fmt.Sprintf("code %q is not a 3-digit number", f),
			}
		}
	}
	return PIDCodes{
		TypeCode:  fields[0],
		BrandCode: fields[1],
		TreadCode: fields[2],
		SizeCode:  fields[3],
	}, nil
}

func isThreeDigitCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TyreOrder is one validated order line: a resolved product identity plus
// the requested quantity. Orders are immutable once built.
type TyreOrder struct {
	PID      string
	Variant  TyreVariant
	Brand    string
	Tread    string
	Size     SizeClass
	Quantity int
}

// NewTyreOrder parses a PID, resolves every code against the catalog and
// validates the quantity. Unknown codes are a hard InvalidOrderError, never
// a silent default.
func NewTyreOrder(c *Catalog, pid string, quantity int) (*TyreOrder, error) {
	codes, err := ParsePID(pid)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, &InvalidOrderError{
			PID:    pid,
			Field:  "quantity",
			Reason: fmt.Sprintf("must be positive, got %d", quantity),
		}
	}

	variant, ok := c.Variant(codes.TypeCode)
	if !ok {
		return nil, &InvalidOrderError{
			PID:    pid,
			Field:  "tyre-type",
			Reason: fmt.Sprintf("unknown tyre-type code %q", codes.TypeCode),
		}
	}
	brand, ok := c.Brand(codes.BrandCode)
	if !ok {
		return nil, &InvalidOrderError{
			PID:    pid,
			Field:  "brand",
			Reason: fmt.Sprintf("unknown brand code %q", codes.BrandCode),
		}
	}
	tread, ok := c.Tread(codes.TreadCode)
	if !ok {
		return nil, &InvalidOrderError{
			PID:    pid,
			Field:  "tread",
			Reason: fmt.Sprintf("unknown tread code %q", codes.TreadCode),
		}
	}
	size, ok := c.Size(codes.SizeCode)
	if !ok {
		return nil, &InvalidOrderError{
			PID:    pid,
			Field:  "size",
			Reason: fmt.Sprintf("unknown size code %q", codes.SizeCode),
		}
	}

	return &TyreOrder{
		PID:      pid,
		Variant:  variant,
		Brand:    brand,
		Tread:    tread,
		Size:     size,
		Quantity: quantity,
	}, nil
}

// ExpandOrders fans each order out into Quantity independent units,
// preserving order-arrival sequence so replays are deterministic. Units
// come back in state Queued with no serial; serials are assigned when
// building begins.
func ExpandOrders(orders []*TyreOrder) []*TyreUnit {
	var units []*TyreUnit
	index := 0
	for _, order := range orders {
		for i := 0; i < order.Quantity; i++ {
			units = append(units, NewTyreUnit(order, index))
			index++
		}
	}
	return units
}
