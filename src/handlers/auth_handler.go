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

	"golang.org/x/crypto/bcrypt"
)

// Register creates an account and returns a token whose tenant is the
// account's email.
func Register(q database.Querier, tokens *util.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokens == nil {
			http.Error(w, "accounts are disabled", http.StatusNotImplemented)
			return
		}
		var req models.Credentials
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}
		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Email: %s", req.Email)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := db.CreateUser(r.Context(), q, req.Email, hashedPassword)
		if errors.Is(err, database.ErrConflict) {
			log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
			http.Error(w, "email already exists", http.StatusConflict)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		tokenString, err := tokens.Issue(user.Email)
		if err != nil {
			log.Printf("ERROR: Failed to generate token for %s: %v", user.Email, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %s", user.Email, user.ID)
		writeJSON(w, http.StatusCreated, map[string]string{"token": tokenString})
	}
}

func Login(q database.Querier, tokens *util.TokenManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokens == nil {
			http.Error(w, "accounts are disabled", http.StatusNotImplemented)
			return
		}
		var req models.Credentials
		if !decodeJSON(w, r, &req) {
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := db.GetUserByEmail(r.Context(), q, email)
		if errors.Is(err, database.ErrNotFound) {
			log.Printf("ERROR: Failed to find user during login - Email: %s", email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to load user %s: %v", email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for %s from IP %s", email, r.RemoteAddr)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := tokens.Issue(user.Email)
		if err != nil {
			log.Printf("ERROR: Failed to generate token for %s: %v", user.Email, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful login - User: %s, ID: %s", user.Email, user.ID)
		writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
	}
}
