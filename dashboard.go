package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DailySalesSummary is a zero-filled daily series over a period, plus the
// period totals. Days without sales appear with zero values so charts render
// a continuous axis.
type DailySalesSummary struct {
	TotalCommission float64    `json:"total_commission"`
	TotalGMV        float64    `json:"total_gmv"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	DataPoints      []DayPoint `json:"data_points"`
}

// DashboardService composes the sales repository with the pure aggregators.
type DashboardService struct{}

var dashboardService = &DashboardService{}

func (s *DashboardService) GetSummary(userID uuid.UUID, start, end *time.Time) (KPISummary, error) {
	records, err := salesRepository.GetByOwner(userID, start, end)
	if err != nil {
		return KPISummary{}, err
	}
	return SummarizeSales(records), nil
}

func (s *DashboardService) GetSalesByDay(userID uuid.UUID, start, end *time.Time) ([]DayPoint, error) {
	records, err := salesRepository.GetByOwner(userID, start, end)
	if err != nil {
		return nil, err
	}

	series := DailySeries(records)
	if start != nil && end != nil {
		series = zeroFillSeries(series, *start, *end)
	}
	return series, nil
}

func (s *DashboardService) GetSalesByChannel(userID uuid.UUID, start, end *time.Time) ([]ChannelTotal, error) {
	records, err := salesRepository.GetByOwner(userID, start, end)
	if err != nil {
		return nil, err
	}
	return AggregateByChannel(records), nil
}

func (s *DashboardService) GetCommissionByStatus(userID uuid.UUID, start, end *time.Time) ([]StatusCommission, error) {
	records, err := salesRepository.GetByOwner(userID, start, end)
	if err != nil {
		return nil, err
	}
	return AggregateCommissionByStatus(records), nil
}

// GetPeriodSales returns a zero-filled daily summary for the `days` Brazil
// calendar days ending on endDate.
func (s *DashboardService) GetPeriodSales(userID uuid.UUID, endDate time.Time, days int) (*DailySalesSummary, error) {
	endOfDay := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 999999999, brazilLocation)
	startOfPeriod := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, brazilLocation).
		AddDate(0, 0, -(days - 1))

	records, err := salesRepository.GetByOwner(userID, &startOfPeriod, &endOfDay)
	if err != nil {
		return nil, fmt.Errorf("error querying sales for %d-day period: %w", days, err)
	}

	summary := &DailySalesSummary{
		StartDate:  brazilDay(startOfPeriod),
		EndDate:    brazilDay(endOfDay),
		DataPoints: zeroFillSeries(DailySeries(records), startOfPeriod, endOfDay),
	}
	for _, p := range summary.DataPoints {
		summary.TotalCommission += p.Commission
		summary.TotalGMV += p.GMV
	}

	return summary, nil
}

// zeroFillSeries expands a sparse daily series over [start, end] so every
// Brazil calendar day in the range is present. Points outside the range are
// dropped; they cannot occur when the series came from a range-bounded query.
func zeroFillSeries(series []DayPoint, start, end time.Time) []DayPoint {
	byDay := make(map[string]DayPoint, len(series))
	for _, p := range series {
		byDay[p.Date] = p
	}

	lastDay := brazilDay(end)
	local := start.In(brazilLocation)
	// Noon cursor keeps the day walk immune to offset transitions.
	cursor := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, brazilLocation)

	filled := []DayPoint{}
	for {
		key := brazilDay(cursor)
		if key > lastDay {
			break
		}
		if p, ok := byDay[key]; ok {
			filled = append(filled, p)
		} else {
			filled = append(filled, DayPoint{Date: key})
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	return filled
}

type DashboardHandler struct{}

var dashboardHandler = &DashboardHandler{}

func parseDashboardParams(r *http.Request) (uuid.UUID, *time.Time, *time.Time, error) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return uuid.Nil, nil, nil, fmt.Errorf("invalid user ID: %w", err)
	}
	start, end, err := parseDateRange(r)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}
	return userID, start, end, nil
}

func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, start, end, err := parseDashboardParams(r)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	summary, err := dashboardService.GetSummary(userID, start, end)
	if err != nil {
		logger.Error("Error getting dashboard summary", "error", err, "user_id", userID)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving dashboard summary", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, "Dashboard summary retrieved successfully", summary)
}

func (h *DashboardHandler) GetSalesByDay(w http.ResponseWriter, r *http.Request) {
	userID, start, end, err := parseDashboardParams(r)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	series, err := dashboardService.GetSalesByDay(userID, start, end)
	if err != nil {
		logger.Error("Error getting daily sales", "error", err, "user_id", userID)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving daily sales", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, "Daily sales retrieved successfully", series)
}

func (h *DashboardHandler) GetSalesByChannel(w http.ResponseWriter, r *http.Request) {
	userID, start, end, err := parseDashboardParams(r)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	totals, err := dashboardService.GetSalesByChannel(userID, start, end)
	if err != nil {
		logger.Error("Error getting sales by channel", "error", err, "user_id", userID)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving sales by channel", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, "Sales by channel retrieved successfully", totals)
}

func (h *DashboardHandler) GetCommissionByStatus(w http.ResponseWriter, r *http.Request) {
	userID, start, end, err := parseDashboardParams(r)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	totals, err := dashboardService.GetCommissionByStatus(userID, start, end)
	if err != nil {
		logger.Error("Error getting commission by status", "error", err, "user_id", userID)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving commission by status", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, "Commission by status retrieved successfully", totals)
}

func (h *DashboardHandler) getPeriodSales(w http.ResponseWriter, r *http.Request, days int) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid user ID", err.Error())
		return
	}

	dateStr := chi.URLParam(r, "date")
	endDate, err := time.ParseInLocation("2006-01-02", dateStr, brazilLocation)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD", err.Error())
		return
	}

	summary, err := dashboardService.GetPeriodSales(userID, endDate, days)
	if err != nil {
		logger.Error("Error getting period sales", "error", err, "user_id", userID, "days", days, "end_date", dateStr)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving sales data", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, fmt.Sprintf("Last %d days sales data ending on %s retrieved successfully", days, dateStr), summary)
}

// GetLast7DaysSales handles the request for the last 7 days' sales data
func (h *DashboardHandler) GetLast7DaysSales(w http.ResponseWriter, r *http.Request) {
	h.getPeriodSales(w, r, 7)
}

// GetLast30DaysSales handles the request for the last 30 days' sales data
func (h *DashboardHandler) GetLast30DaysSales(w http.ResponseWriter, r *http.Request) {
	h.getPeriodSales(w, r, 30)
}
