package handlers

import (
	"log"
	"net/http"
	"strings"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"
	"financeio-server/src/report"
	"financeio-server/src/util"

	"github.com/google/uuid"
)

func GetSummary(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		var filter report.Filter
		if v := query.Get("from"); v != "" {
			from, err := util.ParseDate(v)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			filter.From = &from
		}
		if v := query.Get("to"); v != "" {
			to, err := util.ParseDate(v)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			filter.To = &to
		}
		if v := query.Get("tags"); v != "" {
			for _, s := range strings.Split(v, ",") {
				id, err := uuid.Parse(strings.TrimSpace(s))
				if err != nil {
					http.Error(w, "invalid tag id", http.StatusBadRequest)
					return
				}
				filter.TagIDs = append(filter.TagIDs, id)
			}
		}
		mode, err := report.ParseTagMode(query.Get("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Mode = mode

		finances, err := db.ListFinances(r.Context(), q, user, models.FinanceFilter{})
		if err != nil {
			log.Printf("ERROR: Failed to list finances for summary, user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		categories, err := db.ListCategories(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list categories for summary, user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, report.Summarize(finances, categories, filter))
	}
}
