package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error this service returns itself.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeDetail(w http.ResponseWriter, logger *zap.Logger, status int, detail string) {
	writeJSON(w, logger, status, ErrorResponse{Detail: detail})
}

func internalError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeDetail(w, logger, http.StatusInternalServerError, "internal server error")
}

// pathID parses the {id} route variable. On failure it writes a 422 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeDetail(w, logger, http.StatusUnprocessableEntity, "id must be an integer, got "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

// NotFound and MethodNotAllowed replace gorilla/mux's plain text defaults.
func NotFound(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, logger, http.StatusNotFound, "Not Found")
	})
}

func MethodNotAllowed(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, logger, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}
