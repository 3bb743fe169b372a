package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type presetRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Tags        *tagIDList       `json:"tags"`
}

// resolvePresetTags fills Tags from the owner's current tags.
func resolvePresetTags(tags []models.Tag, presets ...*models.Preset) {
	for _, p := range presets {
		p.Tags = models.ResolveTags(tags, p.TagIDs, models.TagLive)
	}
}

// ownedTagIDs keeps the ids that name one of the caller's tags.
func ownedTagIDs(tags []models.Tag, ids tagIDList) []uuid.UUID {
	refs := models.ResolveTags(tags, ids, models.TagLive)
	owned := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		owned = append(owned, ref.ID)
	}
	return owned
}

func ListPresets(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		presets, err := db.ListPresets(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list presets for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		tags, err := db.ListTags(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list tags for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		for i := range presets {
			resolvePresetTags(tags, &presets[i])
		}
		writeJSON(w, http.StatusOK, presets)
	}
}

func CreatePreset(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		var req presetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Amount == nil || req.Category == nil || strings.TrimSpace(*req.Category) == "" {
			http.Error(w, "amount and category are required", http.StatusBadRequest)
			return
		}

		tags, err := db.ListTags(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list tags for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		preset := &models.Preset{User: user, Amount: *req.Amount, Category: *req.Category, TagIDs: []uuid.UUID{}}
		if req.Description != nil {
			preset.Description = *req.Description
		}
		if req.Tags != nil {
			preset.TagIDs = ownedTagIDs(tags, *req.Tags)
		}

		created, err := db.CreatePreset(r.Context(), q, preset)
		if err != nil {
			log.Printf("ERROR: Failed to create preset for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		resolvePresetTags(tags, created)
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdatePreset(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req presetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
			http.Error(w, "category cannot be empty", http.StatusBadRequest)
			return
		}

		tags, err := db.ListTags(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list tags for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		patch := models.PresetPatch{Amount: req.Amount, Description: req.Description, Category: req.Category}
		if req.Tags != nil {
			owned := ownedTagIDs(tags, *req.Tags)
			patch.TagIDs = &owned
		}

		updated, err := db.UpdatePreset(r.Context(), q, user, id, patch)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update preset %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		resolvePresetTags(tags, updated)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeletePreset(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		err := db.DeletePreset(r.Context(), q, user, id)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete preset %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, "preset deleted")
	}
}
