package main

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestBrazilDay_ConvertsUTCToLocalDay(t *testing.T) {
	// 01:30 UTC is still the previous day in São Paulo (UTC-3).
	utc := time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", brazilDay(utc))

	noon := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", brazilDay(noon))
}

func TestGroupSalesByDay_EmptyInput(t *testing.T) {
	buckets := GroupSalesByDay(nil)
	require.NotNil(t, buckets)
	assert.Empty(t, buckets)

	buckets = GroupSalesByDay([]SalesRecord{})
	assert.Empty(t, buckets)
}

func TestGroupSalesByDay_ExcludesRecordsWithoutPurchaseTime(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "A", PurchaseTime: timePtr(time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)), NetCommission: 10, ActualAmount: 100},
		{OrderID: "B", PurchaseTime: nil, NetCommission: 99, ActualAmount: 999},
	}

	buckets := GroupSalesByDay(records)
	require.Len(t, buckets, 1)
	assert.Equal(t, 10.0, buckets["2024-05-01"].Commission)
	assert.Equal(t, 100.0, buckets["2024-05-01"].GMV)
}

func TestGroupSalesByDay_BucketSumsMatchTotals(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "A", PurchaseTime: timePtr(time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)), NetCommission: 10.5, ActualAmount: 120},
		{OrderID: "B", PurchaseTime: timePtr(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)), NetCommission: 4.5, ActualAmount: 80},
		{OrderID: "C", PurchaseTime: timePtr(time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)), NetCommission: 7, ActualAmount: 45},
		{OrderID: "D", PurchaseTime: nil, NetCommission: 1000, ActualAmount: 1000},
	}

	var wantCommission, wantGMV float64
	for _, rec := range records {
		if rec.PurchaseTime == nil {
			continue
		}
		wantCommission += rec.NetCommission
		wantGMV += rec.ActualAmount
	}

	buckets := GroupSalesByDay(records)
	var gotCommission, gotGMV float64
	for _, b := range buckets {
		gotCommission += b.Commission
		gotGMV += b.GMV
	}

	assert.InDelta(t, wantCommission, gotCommission, 1e-9)
	assert.InDelta(t, wantGMV, gotGMV, 1e-9)
}

func TestDailySeries_SortedChronologically(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "C", PurchaseTime: timePtr(time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)), NetCommission: 3},
		{OrderID: "A", PurchaseTime: timePtr(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)), NetCommission: 1},
		{OrderID: "B", PurchaseTime: timePtr(time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC)), NetCommission: 2},
	}

	series := DailySeries(records)
	require.Len(t, series, 3)
	assert.True(t, sort.SliceIsSorted(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	}))
	assert.Equal(t, "2024-05-02", series[0].Date)
	assert.Equal(t, "2024-05-20", series[2].Date)
}

func TestAggregateByChannel_SentinelForMissingChannel(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "A", Channel: strPtr("Instagram"), ActualAmount: 50},
		{OrderID: "B", Channel: nil, ActualAmount: 30},
		{OrderID: "C", Channel: strPtr("   "), ActualAmount: 20},
		{OrderID: "D", Channel: strPtr(""), ActualAmount: 10},
	}

	totals := AggregateByChannel(records)
	require.Len(t, totals, 2)

	assert.Equal(t, ChannelUnidentified, totals[0].Name)
	assert.InDelta(t, 60.0, totals[0].Value, 1e-9)
	assert.Equal(t, "Instagram", totals[1].Name)
	assert.InDelta(t, 50.0, totals[1].Value, 1e-9)
}

func TestAggregateByChannel_EveryRecordCounted(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "A", Channel: strPtr("Instagram"), ActualAmount: 50},
		{OrderID: "B", Channel: strPtr("TikTok"), ActualAmount: 75},
		{OrderID: "C", Channel: nil, ActualAmount: 25},
		{OrderID: "D", Channel: strPtr("Instagram"), ActualAmount: 10},
	}

	var want float64
	for _, rec := range records {
		want += rec.ActualAmount
	}

	totals := AggregateByChannel(records)
	var got float64
	for _, total := range totals {
		got += total.Value
	}
	assert.InDelta(t, want, got, 1e-9)
}

func TestAggregateByChannel_DescendingWithStableTies(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "A", Channel: strPtr("WhatsApp"), ActualAmount: 40},
		{OrderID: "B", Channel: strPtr("Instagram"), ActualAmount: 40},
		{OrderID: "C", Channel: strPtr("TikTok"), ActualAmount: 90},
	}

	totals := AggregateByChannel(records)
	require.Len(t, totals, 3)
	assert.Equal(t, "TikTok", totals[0].Name)
	// Tie between WhatsApp and Instagram keeps first-encountered order.
	assert.Equal(t, "WhatsApp", totals[1].Name)
	assert.Equal(t, "Instagram", totals[2].Name)
}

func TestAggregateByChannel_EmptyInput(t *testing.T) {
	totals := AggregateByChannel(nil)
	require.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestAggregateCommissionByStatus_DedupSumsMultiItemOrder(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "O1", Status: strPtr("PENDING"), NetCommission: 10},
		{OrderID: "O1", Status: strPtr(""), NetCommission: 5},
	}

	totals := AggregateCommissionByStatus(records)
	require.Len(t, totals, 1)
	assert.Equal(t, "PENDING", totals[0].Status)
	assert.InDelta(t, 15.0, totals[0].Commission, 1e-9)
}

func TestAggregateCommissionByStatus_FirstSeenStatusWins(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "O1", Status: strPtr("COMPLETED"), NetCommission: 1},
		{OrderID: "O1", Status: strPtr("CANCELLED"), NetCommission: 2},
	}

	totals := AggregateCommissionByStatus(records)
	require.Len(t, totals, 1)
	assert.Equal(t, "COMPLETED", totals[0].Status)
	assert.InDelta(t, 3.0, totals[0].Commission, 1e-9)
}

func TestAggregateCommissionByStatus_FallbackChain(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "O1", Status: strPtr(""), OrderStatus: strPtr("SHIPPED"), NetCommission: 7},
		{OrderID: "O2", Status: nil, OrderStatus: nil, NetCommission: 3},
	}

	totals := AggregateCommissionByStatus(records)
	require.Len(t, totals, 2)
	assert.Equal(t, "SHIPPED", totals[0].Status)
	assert.InDelta(t, 7.0, totals[0].Commission, 1e-9)
	assert.Equal(t, StatusUnknown, totals[1].Status)
	assert.InDelta(t, 3.0, totals[1].Commission, 1e-9)
}

func TestAggregateCommissionByStatus_EmptyOrderIDRowsAreIndependent(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "", Status: strPtr("PENDING"), NetCommission: 1},
		{OrderID: "", Status: strPtr("PENDING"), NetCommission: 2},
	}

	totals := AggregateCommissionByStatus(records)
	require.Len(t, totals, 1)
	assert.InDelta(t, 3.0, totals[0].Commission, 1e-9)
}

func TestAggregateCommissionByStatus_DescendingWithStableTies(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "O1", Status: strPtr("PENDING"), NetCommission: 5},
		{OrderID: "O2", Status: strPtr("COMPLETED"), NetCommission: 5},
		{OrderID: "O3", Status: strPtr("SHIPPED"), NetCommission: 12},
	}

	totals := AggregateCommissionByStatus(records)
	require.Len(t, totals, 3)
	assert.Equal(t, "SHIPPED", totals[0].Status)
	assert.Equal(t, "PENDING", totals[1].Status)
	assert.Equal(t, "COMPLETED", totals[2].Status)
}

func TestAggregateCommissionByStatus_EmptyInput(t *testing.T) {
	totals := AggregateCommissionByStatus(nil)
	require.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestSummarizeSales_CountsDistinctOrders(t *testing.T) {
	records := []SalesRecord{
		{OrderID: "O1", ActualAmount: 100, NetCommission: 10, Clicks: 5},
		{OrderID: "O1", ActualAmount: 50, NetCommission: 5, Clicks: 0},
		{OrderID: "O2", ActualAmount: 30, NetCommission: 3, Clicks: 2},
		{OrderID: "", ActualAmount: 20, NetCommission: 2, Clicks: 1},
	}

	summary := SummarizeSales(records)
	assert.InDelta(t, 200.0, summary.TotalGMV, 1e-9)
	assert.InDelta(t, 20.0, summary.TotalCommission, 1e-9)
	assert.Equal(t, 3, summary.OrderCount)
	assert.Equal(t, 4, summary.RowCount)
	assert.Equal(t, int64(8), summary.TotalClicks)
}

func TestSummarizeSales_EmptyInput(t *testing.T) {
	summary := SummarizeSales(nil)
	assert.Equal(t, KPISummary{}, summary)
}
