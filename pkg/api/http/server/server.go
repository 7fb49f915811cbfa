package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/voidshard/conveyor/internal/logger"
	"github.com/voidshard/conveyor/pkg/api"
	"github.com/voidshard/conveyor/pkg/api/http/common"
	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

const (
	wait = 30 * time.Second
)

// Options for the HTTP server.
type Options struct {
	Addr    string
	TLSCert string
	TLSKey  string
	Debug   bool

	// Identity of callers on user routes. Defaults to HeaderIdentity.
	Identity Identity

	Logger *logger.Logger
}

func (o *Options) SetDefaults() {
	if o.Addr == "" {
		o.Addr = "localhost:3000"
	}
	if o.Identity == nil {
		o.Identity = &HeaderIdentity{Header: common.HeaderUser}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
}

type Server struct {
	opts       *Options
	log        *logger.Logger
	svc        api.API
	exit       chan os.Signal
	httpserver *http.Server
}

func NewServer(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &Server{
		opts: opts,
		log:  opts.Logger.With("service", "http"),
		exit: make(chan os.Signal, 1),
	}
}

// Router returns the handler serving svc, without listening anywhere.
func (s *Server) Router(svc api.API) http.Handler {
	s.svc = svc

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if s.opts.Debug {
		router.Use(loggingMiddleware(s.log))
	}

	router.HandleFunc(common.API_HEALTH, s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_JOBS, s.Jobs).Methods(http.MethodGet)
	router.HandleFunc(common.API_JOB, s.Job).Methods(http.MethodGet)
	router.HandleFunc(common.API_CANCEL, s.Cancel).Methods(http.MethodPost)
	router.HandleFunc(common.API_SERVICE_RESPONSE, s.ServiceResponse).Methods(http.MethodPost)
	router.HandleFunc(common.API_SERVICE_RESULTS, s.ServiceResult).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, cerr.NotFound("The requested URL %s was not found", r.URL.Path))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, &common.ErrorResponse{
			Code:        codePrefix + "MethodNotAllowedError",
			Description: "Error: Method not allowed",
		})
	})

	return router
}

// ServeForever serves svc until interrupted or Close is called.
func (s *Server) ServeForever(svc api.API) error {
	s.httpserver = &http.Server{
		Handler:      s.Router(svc),
		Addr:         s.opts.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.httpserver.Addr, "tls", s.opts.TLSCert != "")
		var err error
		if s.opts.TLSCert != "" && s.opts.TLSKey != "" {
			err = s.httpserver.ListenAndServeTLS(s.opts.TLSCert, s.opts.TLSKey)
		} else {
			err = s.httpserver.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	signal.Notify(s.exit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.exit)

	select {
	case err := <-errs:
		return err
	case <-s.exit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return s.httpserver.Shutdown(ctx)
}

func (s *Server) Close() error {
	select {
	case s.exit <- os.Interrupt:
	default:
	}
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) Jobs(w http.ResponseWriter, r *http.Request) {
	caller, err := s.opts.Identity.Identify(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := &structs.Query{}
	err = unmarshalQuery(r, q)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := s.svc.Jobs(r.Context(), caller, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &structs.JobList{Count: len(items), Jobs: items})
}

func (s *Server) Job(w http.ResponseWriter, r *http.Request) {
	caller, err := s.opts.Identity.Identify(r)
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := s.svc.Status(r.Context(), mux.Vars(r)["id"], caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, err := s.opts.Identity.Identify(r)
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := s.svc.Cancel(r.Context(), mux.Vars(r)["id"], caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ServiceResponse accepts an update from a backend executor.
func (s *Server) ServiceResponse(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	u, err := unmarshalUpdate(w, r)
	if err != nil {
		writeCallbackError(w, err)
		return
	}

	if isTrue(r, common.ParamAsync) {
		taskID, err := s.svc.EnqueueUpdate(r.Context(), jobID, u)
		if err != nil {
			writeCallbackError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, &common.UpdateResponse{JobID: jobID, TaskID: taskID})
		return
	}

	j, err := s.svc.ApplyUpdate(r.Context(), jobID, u)
	if err != nil {
		writeCallbackError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &common.UpdateResponse{JobID: j.ID, Status: j.Status, Progress: j.Progress})
}

// ServiceResult redirects the caller to a signed URL for a stored result.
func (s *Server) ServiceResult(w http.ResponseWriter, r *http.Request) {
	caller, err := s.opts.Identity.Identify(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vars := mux.Vars(r)
	signed, err := s.svc.ResultURL(r.Context(), vars["bucket"], vars["key"], caller)
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, signed, http.StatusTemporaryRedirect)
}
