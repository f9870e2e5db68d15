// Package orders ingests order feeds and hands the engine validated,
// catalog-resolved TyreOrder records. Bad rows never make it past here.
package orders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kasundularaam/mtfp-sim/factory"
)

// Column names of the order feed. PID and Quantity are required; the rest
// are cross-checked against the PID's catalog resolution when present.
const (
	colPID      = "PID"
	colTyreType = "TyreType"
	colBrand    = "Brand"
	colTread    = "TreadPattern"
	colSize     = "Size"
	colQuantity = "Quantity"
)

// LoadFile reads an orders CSV from disk. See Load.
func LoadFile(path string, catalog *factory.Catalog) ([]*factory.TyreOrder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening orders file: %w", err)
	}
	defer file.Close()
	orders, err := Load(file, catalog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return orders, nil
}

// Load parses an order feed. Loading is all-or-nothing: the first invalid
// record aborts with an InvalidOrderError, so no unit is ever created from
// a partially bad feed.
func Load(r io.Reader, catalog *factory.Catalog) ([]*factory.TyreOrder, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading orders header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colPID, colQuantity} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("orders header missing column %s", required)
		}
	}

	var orders []*factory.TyreOrder
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading orders row: %w", err)
		}
		line++

		order, err := parseRow(row, cols, catalog)
		if err != nil {
			return nil, fmt.Errorf("orders row %d: %w", line, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func parseRow(row []string, cols map[string]int, catalog *factory.Catalog) (*factory.TyreOrder, error) {
	pid := field(row, cols, colPID)

	qtyText := field(row, cols, colQuantity)
	qty, err := strconv.Atoi(qtyText)
	if err != nil {
		return nil, &factory.InvalidOrderError{
			PID:    pid,
			Field:  "quantity",
			Reason: fmt.Sprintf("not an integer: %q", qtyText),
		}
	}

	order, err := factory.NewTyreOrder(catalog, pid, qty)
	if err != nil {
		return nil, err
	}

	// The feed repeats what the PID encodes; when both are present they
	// must agree, otherwise the record is ambiguous.
	checks := []struct {
		col      string
		resolved string
	}{
		{colTyreType, string(order.Variant)},
		{colBrand, order.Brand},
		{colTread, order.Tread},
		{colSize, string(order.Size)},
	}
	for _, c := range checks {
		got := field(row, cols, c.col)
		if got != "" && got != c.resolved {
			return nil, &factory.InvalidOrderError{
				PID:    pid,
				Field:  c.col,
				Reason: fmt.Sprintf("column says %q but PID resolves to %q", got, c.resolved),
			}
		}
	}
	return order, nil
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
