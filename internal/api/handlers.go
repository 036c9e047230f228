package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/snehareddy22/airaware/internal/aqi"
	"github.com/snehareddy22/airaware/internal/assistant"
	"github.com/snehareddy22/airaware/internal/config"
	"github.com/snehareddy22/airaware/internal/dataset"
	"github.com/snehareddy22/airaware/internal/report"
	"github.com/snehareddy22/airaware/internal/storage/sqlite"
	"github.com/snehareddy22/airaware/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	aqiService *aqi.Service
	assistant  *assistant.Service
	users      *sqlite.UserStorage
	feedback   *sqlite.FeedbackStorage
	ratings    *sqlite.RatingStorage
	config     *config.Config
	logger     *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(aqiService *aqi.Service, assistantService *assistant.Service, users *sqlite.UserStorage, feedback *sqlite.FeedbackStorage, ratings *sqlite.RatingStorage, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		aqiService: aqiService,
		assistant:  assistantService,
		users:      users,
		feedback:   feedback,
		ratings:    ratings,
		config:     cfg,
		logger:     log.Named("api-handler"),
	}
}

// GetCities returns the fixed list of served city display names
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cities": h.config.Cities.Names,
	})
}

// Signup creates a new user account
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decodeBody(r, &req)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	if email == "" || password == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	id, err := h.users.CreateUser(email, string(hash))
	if err != nil {
		if errors.Is(err, sqlite.ErrDuplicateEmail) {
			WriteJSON(w, http.StatusConflict, map[string]string{"error": "User already exists. Please login."})
			return
		}
		h.logger.Error("Failed to create user", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Signup successful",
		"user_id": id,
	})
}

// Login authenticates an existing user account
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decodeBody(r, &req)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	if email == "" || password == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password required"})
		return
	}

	user, err := h.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sqlite.ErrUserNotFound) {
			WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Email is not registered. Please sign up."})
			return
		}
		h.logger.Error("Failed to query user", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Wrong password."})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user_id": user.ID,
	})
}

// GetDashboardData runs the full AQI pipeline for the requested city
func (h *Handler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = h.config.Cities.Default
	}
	cityClean := dataset.NormalizeCityName(city, h.config.Cities.Default)

	data, err := h.aqiService.Dashboard(cityClean)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrNoCityData):
			WriteJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("No data for city %s", cityClean),
			})
		case errors.Is(err, dataset.ErrNoPollutionData):
			WriteJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("No pollution values for %s", cityClean),
			})
		default:
			h.logger.Error("Dashboard pipeline failed",
				logger.String("city", cityClean),
				logger.Error(err))
			WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// Chat proxies a chat message to the AI assistant. The reply is always
// HTTP 200; provider failures degrade to a fixed fallback inside the
// assistant service.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Lang    string `json:"lang"`
	}
	decodeBody(r, &req)

	if req.Lang == "" {
		req.Lang = "en"
	}

	reply := h.assistant.Reply(r.Context(), req.Message, req.Lang)
	WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// PostFeedback stores one feedback entry
func (h *Handler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Feedback string `json:"feedback"`
		UserID   *int64 `json:"user_id"`
	}
	decodeBody(r, &req)

	text := strings.TrimSpace(req.Feedback)
	if text == "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Feedback cannot be empty."})
		return
	}

	if _, err := h.feedback.StoreFeedback(req.UserID, text); err != nil {
		h.logger.Error("Failed to store feedback", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Feedback stored"})
}

// PostRating stores one rating entry after range validation
func (h *Handler) PostRating(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating int    `json:"rating"`
		UserID *int64 `json:"user_id"`
	}
	decodeBody(r, &req)

	if req.Rating < 1 || req.Rating > 5 {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Rating must be 1 to 5."})
		return
	}

	if _, err := h.ratings.StoreRating(req.UserID, req.Rating); err != nil {
		h.logger.Error("Failed to store rating", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Rating %d stored", req.Rating),
	})
}

// DownloadReport generates the PDF report attachment from query
// parameters (values arrive pre-formatted from the dashboard page).
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary := report.Summary{
		City: queryOr(q.Get("city"), "Unknown"),
		PM25: queryOr(q.Get("pm25"), "--"),
		CO:   queryOr(q.Get("co"), "--"),
		NO2:  queryOr(q.Get("no2"), "--"),
		AQI:  queryOr(q.Get("aqi"), "--"),
	}

	pdfBytes, err := report.Build(summary)
	if err != nil {
		h.logger.Error("Failed to build report", logger.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate report"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="AirAware_Report.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Error("Failed to write report response", logger.Error(err))
	}
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"cities": len(h.config.Cities.Names),
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// decodeBody parses a JSON request body into dst. A missing or
// malformed body leaves dst zero-valued; field-level validation decides
// what happens next.
func decodeBody(r *http.Request, dst interface{}) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(dst)
}

func queryOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
