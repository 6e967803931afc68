package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"ecocycle-backend/internal/middleware"
	"ecocycle-backend/internal/models"
	"ecocycle-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Language string `json:"language"`
}

type AuthResponse struct {
	OK    bool                 `json:"ok"`
	Token string               `json:"token,omitempty"`
	User  *models.UserResponse `json:"user,omitempty"`
}

var validRoles = map[string]bool{
	"vendor":       true,
	"factory":      true,
	"entrepreneur": true,
}

func issueToken(user *models.User) (string, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(jwtSecret))
}

// Register creates a vendor/factory/entrepreneur account and issues a token.
func Register(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Username == "" || req.Password == "" || req.Name == "" || req.Role == "" {
			utils.RespondError(w, http.StatusBadRequest, "Username, password, name, and role are required")
			return
		}

		if !validRoles[req.Role] {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'vendor', 'factory', or 'entrepreneur'")
			return
		}

		if req.Language == "" {
			req.Language = "en"
		}

		var exists int
		if err := db.Get(&exists, "SELECT COUNT(*) FROM users WHERE username = $1", req.Username); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if exists > 0 {
			utils.RespondError(w, http.StatusConflict, "Username already taken")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		user := models.User{
			ID:        uuid.New().String(),
			Username:  req.Username,
			Password:  string(hashed),
			Name:      req.Name,
			Role:      req.Role,
			Language:  req.Language,
			CreatedAt: time.Now().Unix(),
		}

		_, err = db.Exec(`
			INSERT INTO users (id, username, password, name, role, language, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Username, user.Password, user.Name, user.Role, user.Language, user.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		tokenString, err := issueToken(&user)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		userResponse := user.ToUserResponse()
		log.Printf("✅ Registered %s (%s)", user.Username, user.Role)
		utils.RespondJSON(w, http.StatusCreated, AuthResponse{OK: true, Token: tokenString, User: &userResponse})
	}
}

func Login(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Username)

		if os.Getenv("APP_JWT_SECRET") == "" {
			log.Println("❌ JWT secret not configured")
			utils.RespondJSON(w, http.StatusInternalServerError, AuthResponse{OK: false})
			return
		}

		var user models.User
		if err := db.Get(&user, "SELECT * FROM users WHERE username = $1", req.Username); err != nil {
			log.Printf("❌ User not found: %s", req.Username)
			utils.RespondJSON(w, http.StatusUnauthorized, AuthResponse{OK: false})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Username)
			utils.RespondJSON(w, http.StatusUnauthorized, AuthResponse{OK: false})
			return
		}

		tokenString, err := issueToken(&user)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		userResponse := user.ToUserResponse()
		log.Printf("✅ Login successful: %s (%s)", user.Username, user.Role)
		utils.RespondJSON(w, http.StatusOK, AuthResponse{OK: true, Token: tokenString, User: &userResponse})
	}
}

// GetCurrentUser returns the authenticated user's profile.
func GetCurrentUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var user models.User
		err := db.Get(&user, "SELECT * FROM users WHERE id = $1", claims.UserID)
		if err == sql.ErrNoRows {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.RespondJSON(w, http.StatusOK, user.ToUserResponse())
	}
}
