package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"studentdir/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestHello(t *testing.T) {
	handler := NewGreetingHandler(new(MockStudentService), zap.NewNop())

	w := httptest.NewRecorder()
	handler.Hello(w, httptest.NewRequest("GET", "/hello", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, Interns!", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestGreetingListStudents(t *testing.T) {
	mockService := new(MockStudentService)
	mockService.On("All", mock.Anything).Return(roster(model.RosterGreeting), nil)

	handler := NewGreetingHandler(mockService, zap.NewNop())
	w := httptest.NewRecorder()
	handler.ListStudents(w, httptest.NewRequest("GET", "/students", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"name":"shubha","age":21,"roll_no":53},
		{"name":"harini","age":20,"roll_no":23},
		{"name":"raj","age":22,"roll_no":50}
	]`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestGreetingListStudentsFailure(t *testing.T) {
	mockService := new(MockStudentService)
	mockService.On("All", mock.Anything).Return(nil, errors.New("closed"))

	handler := NewGreetingHandler(mockService, zap.NewNop())
	w := httptest.NewRecorder()
	handler.ListStudents(w, httptest.NewRequest("GET", "/students", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
