package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SalesRecord is one row of the shopee_vendas table. An order may span
// multiple item rows sharing the same OrderID, so OrderID is not unique.
type SalesRecord struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	OrderID       string     `db:"order_id" json:"order_id"`
	PurchaseTime  *time.Time `db:"purchase_time" json:"purchase_time,omitempty"`
	Channel       *string    `db:"channel" json:"channel,omitempty"`
	Status        *string    `db:"status" json:"status,omitempty"`
	OrderStatus   *string    `db:"order_status" json:"order_status,omitempty"`
	ActualAmount  float64    `db:"actual_amount" json:"actual_amount"`
	NetCommission float64    `db:"net_commission" json:"net_commission"`
	SubID         *string    `db:"sub_id" json:"sub_id,omitempty"`
	Clicks        int64      `db:"clicks" json:"clicks"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type SalesRepository struct{}
type SalesService struct{}

var salesRepository = &SalesRepository{}
var salesService = &SalesService{}

// GetByOwner returns the owner's sales rows, optionally bounded by a closed
// purchase-time range. Rows are ordered by purchase time so that aggregations
// relying on first-seen order (status dedup) are deterministic.
func (r *SalesRepository) GetByOwner(userID uuid.UUID, start, end *time.Time) ([]SalesRecord, error) {
	records := []SalesRecord{}

	query := `SELECT * FROM shopee_vendas WHERE user_id=$1`
	args := []interface{}{userID}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND purchase_time >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND purchase_time <= $%d", len(args))
	}
	query += " ORDER BY purchase_time ASC NULLS LAST, order_id ASC"

	err := db.Select(&records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sales records: %w", err)
	}

	return records, nil
}

func (s *SalesService) GetByOwner(userID uuid.UUID, start, end *time.Time) ([]SalesRecord, error) {
	return salesRepository.GetByOwner(userID, start, end)
}

type SalesHandler struct{}

var salesHandler = &SalesHandler{}

// List returns the raw rows for a date range; the front end holds them only
// as transient state while the consuming view is mounted.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid user ID", err.Error())
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		JsonResponse(w, http.StatusBadRequest, "Invalid date range. Use YYYY-MM-DD", err.Error())
		return
	}

	records, err := salesService.GetByOwner(userID, start, end)
	if err != nil {
		logger.Error("Error listing sales records", "error", err, "user_id", userID)
		JsonResponse(w, http.StatusInternalServerError, "Error retrieving sales records", err.Error())
		return
	}

	JsonResponse(w, http.StatusOK, "Sales records retrieved successfully", records)
}

// parseDateRange reads optional start/end query params. The start bound is
// the beginning of that Brazil day, the end bound the end of it, so a range
// covers whole local days regardless of the server timezone.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, brazilLocation)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, brazilLocation)
		if err != nil {
			return nil, nil, err
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}

	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}
