package handler

import (
	"context"
	"io"
	"net/http"

	"studentdir/internal/model"

	"go.uber.org/zap"
)

const greeting = "Hello, Interns!"

type StudentLister interface {
	All(ctx context.Context) ([]model.Student, error)
}

// GreetingHandler serves the greeting profile.
type GreetingHandler struct {
	studentService StudentLister
	logger         *zap.Logger
}

func NewGreetingHandler(studentService StudentLister, logger *zap.Logger) *GreetingHandler {
	return &GreetingHandler{studentService: studentService, logger: logger}
}

// Hello handles GET /hello.
func (h *GreetingHandler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, greeting); err != nil {
		h.logger.Debug("failed to write greeting", zap.Error(err))
	}
}

// ListStudents handles GET /students.
func (h *GreetingHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.All(r.Context())
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}

	views := make([]model.LookupView, 0, len(students))
	for _, s := range students {
		views = append(views, s.LookupView())
	}
	writeJSON(w, h.logger, http.StatusOK, views)
}
