package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/services/codestore"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	"gitlab.com/learnhub.net/internal/handlers"
	"gitlab.com/learnhub.net/internal/handlers/codes"
	"gitlab.com/learnhub.net/internal/handlers/execution"
	"gitlab.com/learnhub.net/internal/handlers/templates"
)

type ServiceProvider struct {
	sandboxService sandbox.ISandboxService
	gradingService grading.IGradingService
	codeService    codestore.ICodeStoreService
}

func NewServiceProvider(
	sandboxService sandbox.ISandboxService,
	gradingService grading.IGradingService,
	codeService codestore.ICodeStoreService,
) *ServiceProvider {
	return &ServiceProvider{
		sandboxService: sandboxService,
		gradingService: gradingService,
		codeService:    codeService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	middleware      *handlers.MiddlewareProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, middleware *handlers.MiddlewareProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		middleware:      middleware,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.middleware == nil {
		return fmt.Errorf("http server %s has no middleware provider", s.ServiceName)
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.middleware.JWTMiddleware)

	execution.
		NewHandler(s.ServiceProvider.sandboxService, s.ServiceProvider.gradingService, s.logger).
		RegisterRoutes(api)
	templates.NewHandler(s.ServiceProvider.gradingService, s.logger).RegisterRoutes(api)
	if s.ServiceProvider.codeService != nil {
		codes.NewHandler(s.ServiceProvider.codeService, s.logger).RegisterRoutes(api)
	}

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, map[string]interface{}{
		"service": s.ServiceName,
		"status":  "ok",
		"python":  s.ServiceProvider.sandboxService.InterpreterState(),
	})
}

// Start serves in the background. errCh receives a listener failure.
func (s *Server) Start(ctx context.Context) <-chan error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
