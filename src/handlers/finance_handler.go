package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"
	"financeio-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type financeRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
	Category    *string          `json:"category"`
	Tags        *tagIDList       `json:"tags"`
}

// snapshotTags copies the caller's own tags named by ids. Unknown ids are
// dropped.
func snapshotTags(r *http.Request, q database.Querier, user string, ids tagIDList) ([]models.TagRef, error) {
	if len(ids) == 0 {
		return []models.TagRef{}, nil
	}
	tags, err := db.ListTags(r.Context(), q, user)
	if err != nil {
		return nil, err
	}
	return models.ResolveTags(tags, ids, models.TagSnapshot), nil
}

func ListFinances(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}

		var filter models.FinanceFilter
		if v := r.URL.Query().Get("from"); v != "" {
			from, err := util.ParseDate(v)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			filter.From = &from
		}
		if v := r.URL.Query().Get("to"); v != "" {
			to, err := util.ParseDate(v)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			// the to day is inclusive
			end := to.AddDate(0, 0, 1)
			filter.To = &end
		}
		filter.Category = r.URL.Query().Get("category")

		finances, err := db.ListFinances(r.Context(), q, user, filter)
		if err != nil {
			log.Printf("ERROR: Failed to list finances for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, finances)
	}
}

// ListFinancesByMonth returns one calendar month; year defaults to the
// current one.
func ListFinancesByMonth(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}

		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
			return
		}
		year := time.Now().UTC().Year()
		if v := r.URL.Query().Get("year"); v != "" {
			year, err = strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		filter := models.FinanceFilter{From: &from, To: &to, Category: r.URL.Query().Get("category")}

		finances, err := db.ListFinances(r.Context(), q, user, filter)
		if err != nil {
			log.Printf("ERROR: Failed to list finances for user %s, month %d/%d: %v", user, month, year, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, finances)
	}
}

func CreateFinance(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}

		var req financeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Amount == nil || req.Date == nil || req.Category == nil || strings.TrimSpace(*req.Category) == "" {
			http.Error(w, "amount, date and category are required", http.StatusBadRequest)
			return
		}
		date, err := util.ParseDate(*req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		finance := &models.FinanceRecord{
			User:     user,
			Amount:   *req.Amount,
			Date:     date,
			Category: *req.Category,
		}
		if req.Description != nil {
			finance.Description = *req.Description
		}
		var ids tagIDList
		if req.Tags != nil {
			ids = *req.Tags
		}
		finance.Tags, err = snapshotTags(r, q, user, ids)
		if err != nil {
			log.Printf("ERROR: Failed to resolve tags for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		created, err := db.CreateFinance(r.Context(), q, finance)
		if err != nil {
			log.Printf("ERROR: Failed to create finance for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Finance created - User: %s, ID: %s", user, created.ID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateFinance(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req financeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
			http.Error(w, "category cannot be empty", http.StatusBadRequest)
			return
		}

		patch := models.FinancePatch{
			Amount:      req.Amount,
			Description: req.Description,
			Category:    req.Category,
		}
		if req.Date != nil {
			date, err := util.ParseDate(*req.Date)
			if err != nil {
				http.Error(w, "invalid date", http.StatusBadRequest)
				return
			}
			patch.Date = &date
		}
		if req.Tags != nil {
			refs, err := snapshotTags(r, q, user, *req.Tags)
			if err != nil {
				log.Printf("ERROR: Failed to resolve tags for user %s: %v", user, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			patch.Tags = &refs
		}

		updated, err := db.UpdateFinance(r.Context(), q, user, id, patch)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "finance not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update finance %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteFinance(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := db.DeleteFinance(r.Context(), q, user, id)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "finance not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete finance %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Finance deleted - User: %s, ID: %s", user, id)
		writeMessage(w, http.StatusOK, "finance deleted")
	}
}
