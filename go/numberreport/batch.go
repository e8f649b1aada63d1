package numberreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/malonaz/libphonenumber/go/phonenumber"
)

// Row is one number of a batch report.
type Row struct {
	// ID is the position of the number in the batch, starting at 1.
	ID  int    `json:"id"`
	Raw string `json:"raw"`
	// Pretty is the number in its original format.
	Pretty        string `json:"pretty,omitempty"`
	International string `json:"international,omitempty"`
	// Error and ErrorType are set instead of the formats when the number could not be parsed.
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`

	err error
}

// Err returns the parse error of the row, if any.
func (r *Row) Err() error { return r.err }

// SplitBatch splits comma separated numbers, dropping empty entries.
func SplitBatch(text string) []string {
	var numbers []string
	for _, number := range strings.Split(text, ",") {
		if number = strings.TrimSpace(number); number != "" {
			numbers = append(numbers, number)
		}
	}
	return numbers
}

// Batch reports on every number, read against region, and returns the rows in input order.
// Numbers that fail to parse get a row holding their error so only ctx cancellation fails the batch.
func (b *Builder) Batch(ctx context.Context, numbers []string, region string) ([]*Row, error) {
	region = normalizeRegion(region)
	rows := make([]*Row, len(numbers))
	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(b.concurrency)
	for i, number := range numbers {
		errGroup.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			rows[i] = b.row(i+1, number, region)
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("building batch report: %w", err)
	}
	getMetrics().batchesTotal.Inc()
	getMetrics().batchRowsTotal.Observe(float64(len(rows)))
	b.log.DebugContext(ctx, "built batch report", "rows", len(rows), "region", region)
	return rows, nil
}

func (b *Builder) row(id int, number, region string) *Row {
	row := &Row{ID: id, Raw: number}
	n, err := b.engine.ParseAndKeepRawInput(number, region)
	if err != nil {
		row.err = err
		row.Error = err.Error()
		row.ErrorType = phonenumber.ErrorTypeOf(err).String()
		getMetrics().reportsTotal.WithLabelValues(kindBatchRow, outcome(false, err)).Inc()
		return row
	}
	valid := b.engine.IsValidNumber(n)
	row.Pretty = Invalid
	row.International = Invalid
	if valid {
		row.Pretty = b.engine.FormatInOriginalFormat(n, region)
		row.International = b.engine.Format(n, phonenumber.International)
	}
	getMetrics().reportsTotal.WithLabelValues(kindBatchRow, outcome(valid, nil)).Inc()
	return row
}

// Errors combines the parse errors of rows, or returns nil when every number parsed.
func Errors(rows []*Row) error {
	var result *multierror.Error
	for _, row := range rows {
		if row.err != nil {
			result = multierror.Append(result, fmt.Errorf("row %d: %w", row.ID, row.err))
		}
	}
	return result.ErrorOrNil()
}
