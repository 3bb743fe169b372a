package handlers

import (
	"errors"
	"log"
	"net/http"

	database "financeio-server/src/db"
	db "financeio-server/src/db/sql"
	"financeio-server/src/models"
	"financeio-server/src/util"

	"golang.org/x/crypto/bcrypt"
)

// checkPassword loads the account of the current tenant and verifies
// password against it. It writes the error response itself.
func checkPassword(w http.ResponseWriter, r *http.Request, q database.Querier, tenant, password string) (*models.User, bool) {
	user, err := db.GetUserByEmail(r.Context(), q, tenant)
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Printf("ERROR: Failed to load user %s: %v", tenant, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Printf("ERROR: Invalid current password attempt for user %s", tenant)
		http.Error(w, "current password is incorrect", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

func ChangePassword(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := tenantOf(w, r)
		if !ok {
			return
		}

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		if _, ok := checkPassword(w, r, q, tenant, req.CurrentPassword); !ok {
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			log.Printf("ERROR: Password validation failed during change password - User: %s", tenant)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %s: %v", tenant, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := db.UpdatePasswordHash(r.Context(), q, tenant, hashedPassword); err != nil {
			log.Printf("ERROR: Failed to update user password - user: %s: %v", tenant, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User password changed - User: %s", tenant)
		writeMessage(w, http.StatusOK, "password changed successfully")
	}
}

// DeleteUser removes the caller's account together with all of its records.
func DeleteUser(q database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := tenantOf(w, r)
		if !ok {
			return
		}

		var req struct {
			Password string `json:"password"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if _, ok := checkPassword(w, r, q, tenant, req.Password); !ok {
			return
		}

		log.Printf("INFO: Deleting user %s and all associated data", tenant)
		if err := db.DeleteUser(r.Context(), q, tenant); err != nil {
			log.Printf("ERROR: Failed to delete user %s: %v", tenant, err)
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message":  "user deleted",
			"redirect": "/register",
		})
	}
}
