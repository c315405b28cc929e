package server

import (
	"fmt"
	"net/http"

	"studentdir/internal/config"
	"studentdir/internal/handler"
	"studentdir/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Routes is implemented by each profile's handler.
type Routes interface {
	Register(*mux.Router)
}

// NewRoutes picks the handler of the configured profile.
func NewRoutes(cfg config.ServerConfig, studentService *service.StudentService, logger *zap.Logger) (Routes, error) {
	switch cfg.Profile {
	case config.ProfileDirectory:
		return handler.NewStudentHandler(studentService, logger), nil
	case config.ProfileLookup:
		return handler.NewLookupHandler(studentService, logger), nil
	case config.ProfileGreeting:
		return handler.NewGreetingHandler(studentService, logger), nil
	default:
		return nil, fmt.Errorf("unknown profile %q", cfg.Profile)
	}
}

func NewRouter(routes Routes, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = handler.NotFound(logger)
	r.MethodNotAllowedHandler = handler.MethodNotAllowed(logger)
	routes.Register(r)
	return r
}

// NewHandler wraps the router in the middleware chain.
func NewHandler(cfg config.ServerConfig, router *mux.Router, logger *zap.Logger) http.Handler {
	return Chain(cfg, logger).Then(router)
}
