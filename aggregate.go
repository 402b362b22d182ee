package main

import (
	"sort"
	"strings"
	"time"
)

// Sentinel labels for rows with missing grouping fields. The dashboard is
// Brazilian-Portuguese facing, so the labels are too.
const (
	ChannelUnidentified = "Não identificado"
	StatusUnknown       = "Desconhecido"
)

// brazilLocation is the fixed calendar used for day bucketing. Purchase
// times are bucketed into Brazil local days no matter where the server or
// the viewer sits.
var brazilLocation = loadBrazilLocation()

func loadBrazilLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Containers without tzdata fall back to the fixed offset. Brazil
		// abolished DST in 2019, so -03:00 holds year round.
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

func brazilDay(t time.Time) string {
	return t.In(brazilLocation).Format("2006-01-02")
}

// DayBucket accumulates one Brazil calendar day of sales.
type DayBucket struct {
	Commission float64 `json:"commission"`
	GMV        float64 `json:"gmv"`
	Orders     int     `json:"orders"`
}

// GroupSalesByDay buckets records by Brazil calendar day. Records with no
// purchase time are excluded. The sum of bucket commissions (and GMV) equals
// the sum over all records that carry a purchase time.
func GroupSalesByDay(records []SalesRecord) map[string]*DayBucket {
	buckets := make(map[string]*DayBucket)

	for _, rec := range records {
		if rec.PurchaseTime == nil {
			continue
		}
		day := brazilDay(*rec.PurchaseTime)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DayBucket{}
			buckets[day] = bucket
		}
		bucket.Commission += rec.NetCommission
		bucket.GMV += rec.ActualAmount
		bucket.Orders++
	}

	return buckets
}

// DayPoint is one element of a chronological daily series.
type DayPoint struct {
	Date       string  `json:"date"`
	Commission float64 `json:"commission"`
	GMV        float64 `json:"gmv"`
	Orders     int     `json:"orders"`
}

// DailySeries flattens GroupSalesByDay into a series sorted by day key.
// Lexicographic order of zero-padded ISO dates is chronological order.
func DailySeries(records []SalesRecord) []DayPoint {
	buckets := GroupSalesByDay(records)

	keys := make([]string, 0, len(buckets))
	for day := range buckets {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	series := make([]DayPoint, 0, len(keys))
	for _, day := range keys {
		b := buckets[day]
		series = append(series, DayPoint{
			Date:       day,
			Commission: b.Commission,
			GMV:        b.GMV,
			Orders:     b.Orders,
		})
	}

	return series
}

// ChannelTotal is the GMV attributed to one sales channel.
type ChannelTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AggregateByChannel sums ActualAmount per channel. Every record lands in
// exactly one bucket; rows without a channel go to the sentinel. Output is
// sorted descending by value, ties keeping first-encountered channel order.
func AggregateByChannel(records []SalesRecord) []ChannelTotal {
	totals := make(map[string]float64)
	order := []string{}

	for _, rec := range records {
		name := ChannelUnidentified
		if rec.Channel != nil && strings.TrimSpace(*rec.Channel) != "" {
			name = *rec.Channel
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += rec.ActualAmount
	}

	result := make([]ChannelTotal, 0, len(order))
	for _, name := range order {
		result = append(result, ChannelTotal{Name: name, Value: totals[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})

	return result
}

// StatusCommission is the commission earned across orders in one status.
type StatusCommission struct {
	Status     string  `json:"status"`
	Commission float64 `json:"commission"`
}

// resolveStatus applies the status fallback chain. Empty and whitespace-only
// values count as missing.
func resolveStatus(rec SalesRecord) string {
	if rec.Status != nil && strings.TrimSpace(*rec.Status) != "" {
		return *rec.Status
	}
	if rec.OrderStatus != nil && strings.TrimSpace(*rec.OrderStatus) != "" {
		return *rec.OrderStatus
	}
	return StatusUnknown
}

// AggregateCommissionByStatus reduces rows to per-status commission totals
// where the unit of analysis is the order, not the row.
//
// Phase 1 collapses rows sharing an OrderID into one order: the status is
// taken from the first row seen for that order (callers get deterministic
// results because SalesRepository pre-sorts by purchase time) and the
// commission is summed across all of the order's rows. Without this a
// three-item order would be counted three times. Rows with an empty OrderID
// cannot be correlated and each count as their own order.
//
// Phase 2 groups the per-order commissions by status label. Output is sorted
// descending by commission, ties keeping first-encountered status order.
func AggregateCommissionByStatus(records []SalesRecord) []StatusCommission {
	type order struct {
		status     string
		commission float64
	}

	orders := []*order{}
	byID := make(map[string]*order)

	for _, rec := range records {
		if rec.OrderID == "" {
			orders = append(orders, &order{status: resolveStatus(rec), commission: rec.NetCommission})
			continue
		}
		o, seen := byID[rec.OrderID]
		if !seen {
			o = &order{status: resolveStatus(rec)}
			byID[rec.OrderID] = o
			orders = append(orders, o)
		}
		o.commission += rec.NetCommission
	}

	totals := make(map[string]float64)
	statusOrder := []string{}
	for _, o := range orders {
		if _, seen := totals[o.status]; !seen {
			statusOrder = append(statusOrder, o.status)
		}
		totals[o.status] += o.commission
	}

	result := make([]StatusCommission, 0, len(statusOrder))
	for _, status := range statusOrder {
		result = append(result, StatusCommission{Status: status, Commission: totals[status]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Commission > result[j].Commission
	})

	return result
}

// KPISummary feeds the dashboard's headline cards.
type KPISummary struct {
	TotalGMV        float64 `json:"total_gmv"`
	TotalCommission float64 `json:"total_commission"`
	OrderCount      int     `json:"order_count"`
	RowCount        int     `json:"row_count"`
	TotalClicks     int64   `json:"total_clicks"`
}

// SummarizeSales computes headline totals over a record set. OrderCount is
// the number of distinct orders; rows with an empty OrderID each count as one.
func SummarizeSales(records []SalesRecord) KPISummary {
	summary := KPISummary{RowCount: len(records)}
	seen := make(map[string]struct{})

	for _, rec := range records {
		summary.TotalGMV += rec.ActualAmount
		summary.TotalCommission += rec.NetCommission
		summary.TotalClicks += rec.Clicks

		if rec.OrderID == "" {
			summary.OrderCount++
			continue
		}
		if _, ok := seen[rec.OrderID]; !ok {
			seen[rec.OrderID] = struct{}{}
			summary.OrderCount++
		}
	}

	return summary
}
