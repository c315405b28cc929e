package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"studentdir/internal/model"
	"studentdir/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StudentReader is the read side of service.StudentService.
type StudentReader interface {
	All(ctx context.Context) ([]model.Student, error)
	Get(ctx context.Context, id int) (*model.Student, error)
	ByDepartment(ctx context.Context, dept string) ([]model.Student, error)
	ListStudents(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
}

// StudentHandler serves the directory profile.
type StudentHandler struct {
	studentService StudentReader
	logger         *zap.Logger
}

func NewStudentHandler(studentService StudentReader, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{studentService: studentService, logger: logger}
}

func directoryViews(students []model.Student) []model.DirectoryView {
	views := make([]model.DirectoryView, 0, len(students))
	for _, s := range students {
		views = append(views, s.DirectoryView())
	}
	return views
}

// ListAll handles GET /students.
func (h *StudentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.All(r.Context())
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, directoryViews(students))
}

// GetStudent handles GET /students/{id}. An unknown id is a 404.
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	student, err := h.studentService.Get(r.Context(), id)
	if errors.Is(err, service.ErrStudentNotFound) {
		writeDetail(w, h.logger, http.StatusNotFound, "Student not found")
		return
	}
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, student.DirectoryView())
}

// ListByDepartment handles GET /departments/{dept}/students.
func (h *StudentHandler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.ByDepartment(r.Context(), mux.Vars(r)["dept"])
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, directoryViews(students))
}

// SearchStudents handles GET /students/search with filters, sorting and pagination.
func (h *StudentHandler) SearchStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if errors.Is(err, strconv.ErrRange) {
		writeDetail(w, h.logger, http.StatusUnprocessableEntity, "page out of range")
		return
	}
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > service.MaxLimit {
		limit = service.MaxLimit
	}
	sortBy := query.Get("sort_by")
	if sortBy == "" {
		sortBy = "id"
	}
	sortOrder := query.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}
	ageMin, _ := strconv.Atoi(query.Get("age_min"))
	ageMax, _ := strconv.Atoi(query.Get("age_max"))

	result, err := h.studentService.ListStudents(r.Context(), service.ListQuery{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Name:      query.Get("name"),
		Dept:      query.Get("dept"),
		AgeMin:    ageMin,
		AgeMax:    ageMax,
	})
	if errors.Is(err, service.ErrPageOutOfRange) {
		writeDetail(w, h.logger, http.StatusUnprocessableEntity, "page out of range")
		return
	}
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}

	response := map[string]interface{}{
		"data":       directoryViews(result.Students),
		"page":       page,
		"limit":      limit,
		"total":      result.Total,
		"totalPages": result.TotalPages,
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}
