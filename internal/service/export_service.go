package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"studentdir/internal/model"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrUnknownFormat    = errors.New("unknown export format")
)

type ExportOptions struct {
	SortBy string // age, name, roll_no or id; empty means age
	Order  string // asc or desc; empty means asc
	Format string // json, yaml or toml; empty means json
}

type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{logger: logger}
}

// Sort returns a sorted copy of students. Equal keys keep their input order.
func (s *ExportService) Sort(students []model.Student, field, order string) ([]model.Student, error) {
	var less func(a, b model.Student) bool
	switch field {
	case "", "age":
		less = func(a, b model.Student) bool { return a.Age < b.Age }
	case "name":
		less = func(a, b model.Student) bool { return a.Name < b.Name }
	case "roll_no":
		less = func(a, b model.Student) bool { return a.RollNo < b.RollNo }
	case "id":
		less = func(a, b model.Student) bool { return a.ID < b.ID }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}

	switch strings.ToLower(order) {
	case "", "asc":
	case "desc":
		asc := less
		less = func(a, b model.Student) bool { return asc(b, a) }
	default:
		return nil, fmt.Errorf("unknown sort order %q", order)
	}

	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}

// Encode renders students in the export shape. JSON uses a four space indent, no trailing
// newline and \uXXXX escapes for every non-ASCII character.
func (s *ExportService) Encode(students []model.Student, format string) ([]byte, error) {
	views := make([]model.ExportView, 0, len(students))
	for _, student := range students {
		views = append(views, student.ExportView())
	}

	switch format {
	case "", "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(views); err != nil {
			return nil, err
		}
		return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
	case "yaml":
		return yaml.Marshal(views)
	case "toml":
		return toml.Marshal(struct {
			Students []model.ExportView `toml:"students"`
		}{Students: views})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// escapeNonASCII rewrites non-ASCII runes of encoded JSON as lower case \uXXXX escapes,
// using surrogate pairs outside the basic plane. Such runes only occur inside strings.
func escapeNonASCII(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out.WriteRune(r)
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			fmt.Fprintf(&out, "\\u%04x\\u%04x", r1, r2)
			continue
		}
		fmt.Fprintf(&out, "\\u%04x", r)
	}
	return out.Bytes()
}

// Export sorts then encodes students.
func (s *ExportService) Export(students []model.Student, opts ExportOptions) ([]byte, error) {
	sorted, err := s.Sort(students, opts.SortBy, opts.Order)
	if err != nil {
		return nil, err
	}
	return s.Encode(sorted, opts.Format)
}

// WriteFile exports students to path, replacing any existing file.
func (s *ExportService) WriteFile(path string, students []model.Student, opts ExportOptions) error {
	data, err := s.Export(students, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("students exported",
		zap.String("path", path),
		zap.Int("count", len(students)),
		zap.String("sort_by", opts.SortBy),
		zap.String("format", opts.Format))
	return nil
}
