// Package dataset loads the precomputed e-commerce tables (orders, customer
// segments, customer lifetime value) into an immutable in-memory snapshot.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopdash/internal/models"
	"shopdash/internal/services/recency"
	"shopdash/internal/services/storage"
)

// ErrDataUnavailable indicates a missing or malformed source file. Fatal at
// startup; there is no partial load.
var ErrDataUnavailable = errors.New("dataset unavailable")

// columnMappings maps export column-name variants to our standard names
var columnMappings = map[string][]string{
	"customer_unique_id": {
		"customer_unique_id", "Customer Unique ID", "customer_id", "Customer ID",
	},
	"order_id": {
		"order_id", "Order ID", "order", "Order",
	},
	"order_purchase_timestamp": {
		"order_purchase_timestamp", "Order Purchase Timestamp",
		"purchase_timestamp", "Purchase Timestamp", "purchase_date", "Purchase Date",
	},
	"product_category": {
		"product_category", "Product Category",
	},
	"product_category_name": {
		"product_category_name", "Product Category Name",
	},
	"payment_value": {
		"payment_value", "Payment Value", "payment", "Payment", "amount", "Amount",
	},
	"segment": {
		"segment", "Segment", "customer_segment", "Customer Segment",
	},
	"frequency": {
		"frequency", "Frequency", "order_count", "Order Count",
	},
	"total_spending": {
		"total_spending", "Total Spending", "monetary", "Monetary",
	},
}

// Snapshot is the immutable result of a load: all three tables, with order
// recency already computed. Filtering produces new views and never mutates
// the snapshot.
type Snapshot struct {
	Orders   *models.OrderSet
	Segments *models.SegmentSet
	CLV      []models.CLVRecord
}

// Loader reads the three dataset files through a Storage and memoizes the
// resulting snapshot for the lifetime of the process.
type Loader struct {
	OrdersPath   string
	SegmentsPath string
	CLVPath      string

	store *storage.Storage
	log   *zap.SugaredLogger

	once     sync.Once
	snapshot *Snapshot
	err      error
}

// New creates a new Loader
func New(store *storage.Storage, log *zap.SugaredLogger, ordersPath, segmentsPath, clvPath string) *Loader {
	return &Loader{
		OrdersPath:   ordersPath,
		SegmentsPath: segmentsPath,
		CLVPath:      clvPath,
		store:        store,
		log:          log,
	}
}

// Load returns the dataset snapshot, reading storage at most once. Repeated
// calls return the same snapshot (or the same error) without touching disk.
func (l *Loader) Load() (*Snapshot, error) {
	l.once.Do(func() {
		l.snapshot, l.err = l.loadAll()
	})
	return l.snapshot, l.err
}

func (l *Loader) loadAll() (*Snapshot, error) {
	orders, err := l.loadOrders()
	if err != nil {
		return nil, err
	}

	segments, err := l.loadSegments()
	if err != nil {
		return nil, err
	}

	clv, err := l.loadCLV()
	if err != nil {
		return nil, err
	}

	// Recency is anchored to the unfiltered dataset's latest purchase and is
	// computed exactly once, here.
	recency.Enrich(orders)

	l.log.Infow("Dataset loaded",
		"orders", orders.Len(),
		"segments", segments.Len(),
		"clv", len(clv),
	)

	return &Snapshot{Orders: orders, Segments: segments, CLV: clv}, nil
}

// normalizeColumnName maps an export column name to our standard name
func normalizeColumnName(col string) string {
	col = strings.TrimSpace(col)
	for standard, variants := range columnMappings {
		for _, variant := range variants {
			if col == variant {
				return standard
			}
		}
	}
	return col
}

// buildColumnIndex creates a normalized column index from CSV headers
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		normalized := normalizeColumnName(col)
		// First match wins
		if _, exists := colIndex[normalized]; !exists {
			colIndex[normalized] = i
		}
	}
	return colIndex
}

// openCSV opens a file through storage and reads its header
func (l *Loader) openCSV(path string) (*csv.Reader, io.Closer, map[string]int, error) {
	file, err := l.store.OpenFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, filepath.Base(path), err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, nil, fmt.Errorf("%w: %s: error reading header: %v", ErrDataUnavailable, filepath.Base(path), err)
	}

	return reader, file, buildColumnIndex(header), nil
}

// requireColumns validates that every required column is present
func requireColumns(path string, colIndex map[string]int, required ...string) error {
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("%w: %s: missing required column %q (tried: %v)",
				ErrDataUnavailable, filepath.Base(path), col, columnMappings[col])
		}
	}
	return nil
}

func (l *Loader) loadOrders() (*models.OrderSet, error) {
	reader, file, colIndex, err := l.openCSV(l.OrdersPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := requireColumns(l.OrdersPath, colIndex,
		"customer_unique_id", "order_purchase_timestamp",
		"product_category", "product_category_name", "payment_value"); err != nil {
		return nil, err
	}

	field := func(record []string, col string) string {
		if idx, ok := colIndex[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var orders []models.Order
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.log.Warnf("Error reading orders line %d: %v", lineNum+1, err)
			lineNum++
			continue
		}
		lineNum++

		o := models.Order{
			OrderID:             field(record, "order_id"),
			CustomerID:          field(record, "customer_unique_id"),
			ProductCategory:     field(record, "product_category"),
			ProductCategoryName: field(record, "product_category_name"),
		}

		o.PurchaseTimestamp = parseTimestamp(field(record, "order_purchase_timestamp"))
		if o.PurchaseTimestamp.IsZero() {
			l.log.Warnf("Could not parse timestamp %q on orders line %d", field(record, "order_purchase_timestamp"), lineNum)
			continue
		}

		o.PaymentValue = parseAmount(field(record, "payment_value"))
		if o.PaymentValue < 0 {
			l.log.Warnf("Negative payment value on orders line %d, skipping", lineNum)
			continue
		}

		orders = append(orders, o)
	}

	l.log.Infof("Loaded %d order rows from %s", len(orders), filepath.Base(l.OrdersPath))
	return models.NewOrderSet(orders), nil
}

func (l *Loader) loadSegments() (*models.SegmentSet, error) {
	reader, file, colIndex, err := l.openCSV(l.SegmentsPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := requireColumns(l.SegmentsPath, colIndex,
		"customer_unique_id", "segment", "frequency", "total_spending"); err != nil {
		return nil, err
	}

	field := func(record []string, col string) string {
		if idx, ok := colIndex[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var segments []models.Segment
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.log.Warnf("Error reading segments line %d: %v", lineNum+1, err)
			lineNum++
			continue
		}
		lineNum++

		s := models.Segment{
			CustomerID: field(record, "customer_unique_id"),
			Segment:    field(record, "segment"),
		}

		freq, err := strconv.Atoi(field(record, "frequency"))
		if err != nil || freq < 0 {
			l.log.Warnf("Bad frequency on segments line %d, skipping", lineNum)
			continue
		}
		s.Frequency = freq

		s.TotalSpending = parseAmount(field(record, "total_spending"))
		if s.TotalSpending < 0 {
			l.log.Warnf("Negative total_spending on segments line %d, skipping", lineNum)
			continue
		}

		segments = append(segments, s)
	}

	l.log.Infof("Loaded %d segment rows from %s", len(segments), filepath.Base(l.SegmentsPath))
	return models.NewSegmentSet(segments), nil
}

// loadCLV reads the lifetime-value table as opaque pass-through rows
func (l *Loader) loadCLV() ([]models.CLVRecord, error) {
	file, err := l.store.OpenFile(l.CLVPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, filepath.Base(l.CLVPath), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: error reading header: %v", ErrDataUnavailable, filepath.Base(l.CLVPath), err)
	}

	idCol := -1
	for i, col := range header {
		if normalizeColumnName(col) == "customer_unique_id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s: missing required column %q",
			ErrDataUnavailable, filepath.Base(l.CLVPath), "customer_unique_id")
	}

	var records []models.CLVRecord

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if idCol >= len(record) {
			continue
		}

		r := models.CLVRecord{
			CustomerID: strings.TrimSpace(record[idCol]),
			Values:     make(map[string]string),
		}
		for i, v := range record {
			if i == idCol || i >= len(header) {
				continue
			}
			r.Values[strings.TrimSpace(header[i])] = strings.TrimSpace(v)
		}
		records = append(records, r)
	}

	l.log.Infof("Loaded %d lifetime-value rows from %s", len(records), filepath.Base(l.CLVPath))
	return records, nil
}

// parseTimestamp tries the timestamp formats seen in dataset exports.
// Timestamps are timezone-naive; everything parses into UTC.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"01/02/2006 15:04",
		"01/02/2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// parseAmount parses a currency amount, handling symbols and separators.
// Unparseable input comes back as -1 so callers can reject the row.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return amount
}
