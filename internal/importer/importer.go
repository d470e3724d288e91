package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads vendor catalog exports and inserts/updates products.
//
// Expected columns: id, vendor_id, name, price, image_url,
// available_for_delivery, available_for_pickup, delivery_fee.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products. It returns the number of
// products imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if product == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", product.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	if id == "" && name == "" {
		return nil, nil
	}
	if id == "" || name == "" {
		return nil, fmt.Errorf("row missing id or name: id=%q name=%q", id, name)
	}

	price, err := parseMoney(pick(record, index, "price"))
	if err != nil {
		return nil, fmt.Errorf("product %q: bad price: %w", id, err)
	}
	fee, err := parseMoney(pick(record, index, "delivery_fee"))
	if err != nil {
		return nil, fmt.Errorf("product %q: bad delivery fee: %w", id, err)
	}

	p := domain.Product{
		ID:                   id,
		VendorID:             pick(record, index, "vendor_id"),
		Name:                 name,
		Price:                price,
		ImageURL:             pick(record, index, "image_url"),
		AvailableForDelivery: parseBool(pick(record, index, "available_for_delivery")),
		AvailableForPickup:   parseBool(pick(record, index, "available_for_pickup")),
		DeliveryFee:          fee,
	}
	if !p.AvailableForDelivery && !p.AvailableForPickup {
		return nil, fmt.Errorf("product %q: no fulfillment channel enabled", id)
	}
	return &p, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
