package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"studentdir/internal/model"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var requiredColumns = []string{"id", "name", "age"}

// RosterImport is the result of reading a roster CSV.
type RosterImport struct {
	Students []model.Student

	// Skipped holds one error per rejected row, combined with multierr. Nil when every row loaded.
	Skipped error
}

// RosterLoader reads replacement rosters from CSV. The header row names the columns:
// id, name and age are required, roll_no and dept are optional, others are ignored.
type RosterLoader struct {
	logger *zap.Logger
}

func NewRosterLoader(logger *zap.Logger) *RosterLoader {
	return &RosterLoader{logger: logger}
}

// LoadFile reads the CSV at path into the named roster.
func (l *RosterLoader) LoadFile(path, roster string) (result *RosterImport, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))

	return l.Load(file, roster)
}

// Load reads CSV records from r. Rows with a duplicate id or a malformed number are skipped.
func (l *RosterLoader) Load(r io.Reader, roster string) (*RosterImport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("roster file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		columns[key] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("roster header is missing column %q", name)
		}
	}

	result := &RosterImport{Students: []model.Student{}}
	seen := make(map[int]bool)
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = multierr.Append(result.Skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		student, err := parseRecord(record, columns)
		if err != nil {
			result.Skipped = multierr.Append(result.Skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if seen[student.ID] {
			result.Skipped = multierr.Append(result.Skipped, fmt.Errorf("line %d: duplicate student id %d", line, student.ID))
			continue
		}
		seen[student.ID] = true

		student.Roster = roster
		result.Students = append(result.Students, student)
	}

	for _, skipped := range multierr.Errors(result.Skipped) {
		l.logger.Warn("skipping roster row", zap.String("roster", roster), zap.Error(skipped))
	}
	l.logger.Info("roster loaded", zap.String("roster", roster), zap.Int("students", len(result.Students)))

	return result, nil
}

func parseRecord(record []string, columns map[string]int) (model.Student, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	number := func(name string, required bool) (int, error) {
		raw := field(name)
		if raw == "" && !required {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", name, raw)
		}
		return n, nil
	}

	var s model.Student
	var err error
	if s.ID, err = number("id", true); err != nil {
		return s, err
	}
	if s.Age, err = number("age", true); err != nil {
		return s, err
	}
	if s.RollNo, err = number("roll_no", false); err != nil {
		return s, err
	}
	s.Name = field("name")
	if s.Name == "" {
		return s, errors.New("missing name")
	}
	s.Dept = field("dept")
	return s, nil
}
