package ledger

import (
	"sort"

	"gorm.io/gorm"
)

type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// QueryOptions are the filter and sort axes of a report query. Zero-value
// filters mean "all"; SortBy defaults to date, SortOrder to descending.
type QueryOptions struct {
	Type        TransactionType
	PaymentMode PaymentMode
	SortBy      SortField
	SortOrder   SortOrder
}

func (o QueryOptions) withDefaults() QueryOptions {
	if o.SortBy != SortByAmount {
		o.SortBy = SortByDate
	}
	if o.SortOrder != OrderAsc {
		o.SortOrder = OrderDesc
	}
	return o
}

// DateGroup is one day's slice of the report, with totals computed over its
// own entries only.
type DateGroup struct {
	Date             string        `json:"date"`
	Entries          []Transaction `json:"entries"`
	IncomeTotal      float64       `json:"income_total"`
	ExpenditureTotal float64       `json:"expenditure_total"`
}

// Report is the result of a query. Exactly one of the two sides is non-nil
// per call: Sorted for amount-sorted flat views, Grouped for date-grouped
// views. The nil side marshals to JSON null so clients can branch on which
// view they asked for. An empty result set yields an empty, non-nil
// collection on the selected side.
type Report struct {
	Sorted  []Transaction `json:"sorted"`
	Grouped []DateGroup   `json:"grouped"`
}

// Summary holds event-wide totals. A type with no rows contributes zero;
// NetTotal may be negative.
type Summary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenditure float64 `json:"total_expenditure"`
	NetTotal         float64 `json:"net_total"`
}

// TypeTotal is one row of the grouped-sum summary query.
type TypeTotal struct {
	Type  TransactionType
	Total float64
}

// Aggregator computes report views and summaries for one event's
// transactions. All derived shapes are computed in memory from a single
// pre-ordered fetch.
type Aggregator struct {
	DB *gorm.DB
}

// Query fetches the event's transactions under the requested filters and
// returns either a date-grouped or an amount-sorted view.
//
// Rows come back from the store ordered by date in the requested direction
// with created_at descending as the tie-break, so entries within a day are
// most-recent first regardless of sort direction.
func (a *Aggregator) Query(eventID uint, opts QueryOptions) (Report, error) {
	opts = opts.withDefaults()

	q := a.DB.Where("event_id = ?", eventID)
	if opts.Type != "" {
		q = q.Where("type = ?", opts.Type)
	}
	if opts.PaymentMode != "" {
		q = q.Where("payment_mode = ?", opts.PaymentMode)
	}

	dateOrder := "date DESC"
	if opts.SortOrder == OrderAsc {
		dateOrder = "date ASC"
	}

	var rows []Transaction
	if err := q.Order(dateOrder).Order("created_at DESC").Find(&rows).Error; err != nil {
		return Report{}, err
	}

	if opts.SortBy == SortByAmount {
		return Report{Sorted: SortedByAmount(rows, opts.SortOrder)}, nil
	}
	return Report{Grouped: GroupedByDate(rows)}, nil
}

// SortedByAmount re-sorts fetched rows purely by amount, discarding the
// date order. The sort is stable: equal amounts keep their prior relative
// order.
func SortedByAmount(rows []Transaction, order SortOrder) []Transaction {
	sorted := make([]Transaction, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == OrderAsc {
			return sorted[i].Amount < sorted[j].Amount
		}
		return sorted[i].Amount > sorted[j].Amount
	})
	return sorted
}

// GroupedByDate folds pre-sorted rows into one group per distinct date, in
// first-seen order, so the group order matches the fetch's date order.
// Entries within a group keep their fetch order; income and expenditure
// subtotals accumulate per group as rows fold in.
func GroupedByDate(rows []Transaction) []DateGroup {
	groups := make([]DateGroup, 0)
	indexByDate := make(map[string]int)

	for _, row := range rows {
		idx, ok := indexByDate[row.Date]
		if !ok {
			idx = len(groups)
			indexByDate[row.Date] = idx
			groups = append(groups, DateGroup{Date: row.Date, Entries: []Transaction{}})
		}

		g := &groups[idx]
		g.Entries = append(g.Entries, row)
		if row.Type == TypeIncome {
			g.IncomeTotal += row.Amount
		} else {
			g.ExpenditureTotal += row.Amount
		}
	}

	return groups
}

// Summary issues a grouped sum by type over the event's matching rows.
func (a *Aggregator) Summary(eventID uint, paymentMode PaymentMode) (Summary, error) {
	q := a.DB.Model(&Transaction{}).Where("event_id = ?", eventID)
	if paymentMode != "" {
		q = q.Where("payment_mode = ?", paymentMode)
	}

	var rows []TypeTotal
	if err := q.Select("type, SUM(amount) AS total").Group("type").Scan(&rows).Error; err != nil {
		return Summary{}, err
	}

	return Summarize(rows), nil
}

// Summarize folds grouped-sum rows into a Summary. A type bucket with no
// rows defaults to zero, never null.
func Summarize(rows []TypeTotal) Summary {
	var s Summary
	for _, row := range rows {
		switch row.Type {
		case TypeIncome:
			s.TotalIncome = row.Total
		case TypeExpenditure:
			s.TotalExpenditure = row.Total
		}
	}
	s.NetTotal = s.TotalIncome - s.TotalExpenditure
	return s
}

// RecentEntries returns the newest entries for an event, insertion-recency
// order.
func (a *Aggregator) RecentEntries(eventID uint, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []Transaction
	err := a.DB.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
