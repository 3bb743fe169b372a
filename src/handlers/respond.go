package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"financeio-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// tenantOf reads the tenant set by the tenant middleware.
func tenantOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenant, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		http.Error(w, "user header is required", http.StatusBadRequest)
	}
	return tenant, ok
}

// idParam parses the {id} URL parameter. A malformed id cannot match any
// record, so it is reported as not found.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("ERROR: Failed to decode request body for %s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

// tagIDList accepts tag ids as plain strings or as tag objects, which is
// what older clients send.
type tagIDList []uuid.UUID

func (l *tagIDList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = tagIDList{}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make(tagIDList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			var obj struct {
				ID    string `json:"id"`
				Mongo string `json:"_id"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return fmt.Errorf("tag must be an id or an object with an id")
			}
			s = obj.ID
			if s == "" {
				s = obj.Mongo
			}
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid tag id %q", s)
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}
