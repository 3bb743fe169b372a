package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"
	"financeio-server/src/util"
)

type tagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func ListTags(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		tags, err := db.ListTags(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list tags for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}

func CreateTag(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		var req tagRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Color == nil {
			http.Error(w, "name and color are required", http.StatusBadRequest)
			return
		}
		if !util.ValidateHexColor(*req.Color) {
			http.Error(w, "color must be a hex color", http.StatusBadRequest)
			return
		}

		created, err := db.CreateTag(r.Context(), q, &models.Tag{User: user, Name: *req.Name, Color: *req.Color})
		if err != nil {
			log.Printf("ERROR: Failed to create tag for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateTag renames or recolors a tag. Presets pick the change up on their
// next read; finance records keep the snapshot they were written with.
func UpdateTag(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req tagRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			http.Error(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		if req.Color != nil && !util.ValidateHexColor(*req.Color) {
			http.Error(w, "color must be a hex color", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateTag(r.Context(), q, user, id, models.TagPatch{Name: req.Name, Color: req.Color})
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "tag not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update tag %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTag(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		err := db.DeleteTag(r.Context(), q, user, id)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "tag not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete tag %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, "tag deleted")
	}
}
