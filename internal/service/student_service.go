package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"studentdir/internal/model"

	"gorm.io/gorm"
)

// MaxLimit caps the page size of ListStudents.
const MaxLimit = 100

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrPageOutOfRange  = errors.New("page out of range")
)

// sortable maps accepted sort_by values to columns.
var sortable = map[string]string{
	"id":      "id",
	"name":    "name",
	"age":     "age",
	"roll_no": "roll_no",
	"dept":    "dept",
}

// ListQuery holds the filters, sort and page of a ListStudents call. Zero values mean "no filter".
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Name      string
	Dept      string
	AgeMin    int
	AgeMax    int
}

type ListResult struct {
	Students   []model.Student
	Total      int64
	TotalPages int
}

// StudentService reads one roster.
type StudentService struct {
	db     *gorm.DB
	roster string
}

func NewStudentService(db *gorm.DB, roster string) *StudentService {
	return &StudentService{db: db, roster: roster}
}

func (s *StudentService) scope(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Student{}).Where("roster = ?", s.roster)
}

// All returns the whole roster ordered by id.
func (s *StudentService) All(ctx context.Context) ([]model.Student, error) {
	students := []model.Student{}
	if err := s.scope(ctx).Order("id asc").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// Get returns the student with the given id or ErrStudentNotFound.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	var student model.Student
	err := s.scope(ctx).Where("id = ?", id).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// ByDepartment returns the students of dept, compared case-insensitively.
func (s *StudentService) ByDepartment(ctx context.Context, dept string) ([]model.Student, error) {
	students := []model.Student{}
	err := s.scope(ctx).
		Where("UPPER(dept) = ?", strings.ToUpper(dept)).
		Order("id asc").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (s *StudentService) ListStudents(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, q.Page)
	}

	dbQuery := s.scope(ctx)

	// Apply filters
	if q.Name != "" {
		dbQuery = dbQuery.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Dept != "" {
		dbQuery = dbQuery.Where("UPPER(dept) = ?", strings.ToUpper(q.Dept))
	}
	if q.AgeMin > 0 {
		dbQuery = dbQuery.Where("age >= ?", q.AgeMin)
	}
	if q.AgeMax > 0 {
		dbQuery = dbQuery.Where("age <= ?", q.AgeMax)
	}

	// new session so Count and Find each start from the filtered query
	dbQuery = dbQuery.Session(&gorm.Session{})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	// Apply sorting; unknown columns fall back to id
	column, ok := sortable[q.SortBy]
	if !ok {
		column = "id"
	}
	order := "asc"
	if strings.EqualFold(q.SortOrder, "desc") {
		order = "desc"
	}

	students := []model.Student{}
	err := dbQuery.
		Order(column + " " + order).
		Order("id asc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Students:   students,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}
