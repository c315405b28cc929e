package handler

import (
	"context"
	"errors"
	"net/http"

	"studentdir/internal/model"
	"studentdir/internal/service"

	"go.uber.org/zap"
)

type StudentGetter interface {
	Get(ctx context.Context, id int) (*model.Student, error)
}

// LookupHandler serves the lookup profile. Unlike the directory profile, an unknown
// id is answered with 200 and an embedded error.
type LookupHandler struct {
	studentService StudentGetter
	logger         *zap.Logger
}

func NewLookupHandler(studentService StudentGetter, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{studentService: studentService, logger: logger}
}

// Ping handles GET /ping.
func (h *LookupHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"message": "pong"})
}

// GetStudent handles GET /students/{id}.
func (h *LookupHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	student, err := h.studentService.Get(r.Context(), id)
	if errors.Is(err, service.ErrStudentNotFound) {
		writeJSON(w, h.logger, http.StatusOK, map[string]string{"error": "Student not found"})
		return
	}
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, student.LookupView())
}
