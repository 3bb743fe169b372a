package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"
)

type categoryRequest struct {
	Description *string `json:"description"`
}

func ListCategories(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		categories, err := db.ListCategories(r.Context(), q, user)
		if err != nil {
			log.Printf("ERROR: Failed to list categories for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func CreateCategory(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		var req categoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Description == nil || strings.TrimSpace(*req.Description) == "" {
			http.Error(w, "description is required", http.StatusBadRequest)
			return
		}

		created, err := db.CreateCategory(r.Context(), q, &models.Category{User: user, Description: *req.Description})
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %s: %v", user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateCategory(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		var req categoryRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
			http.Error(w, "description cannot be empty", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateCategory(r.Context(), q, user, id, req.Description)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update category %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := tenantOf(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		err := db.DeleteCategory(r.Context(), q, user, id)
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete category %s for user %s: %v", id, user, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, "category deleted")
	}
}
