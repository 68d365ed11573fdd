// Package api exposes the invest commands over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/investor"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server handles the REST API.
type Server struct {
	engine     *investor.Engine
	dispatcher *investor.Dispatcher
	router     *mux.Router
	origins    []string
	logger     *zap.Logger
}

// NewServer creates a new API server.
func NewServer(engine *investor.Engine, dispatcher *investor.Dispatcher, origins []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:     engine,
		dispatcher: dispatcher,
		router:     mux.NewRouter(),
		origins:    origins,
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/accounts/{account}/invest", s.handleInvest).Methods("POST")
	api.HandleFunc("/accounts/{account}/holdings", s.handleGetHoldings).Methods("GET")
	api.HandleFunc("/quotes/{symbol}", s.handleGetQuote).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	s.logger.Info("api server starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// InvestRequest is the body of an invest command, e.g {"args": ["buy", "AAPL", "5"]}.
type InvestRequest struct {
	Args []string `json:"args"`
}

// InvestResponse carries the reply of a handled command.
type InvestResponse struct {
	Handled bool   `json:"handled"`
	Reply   string `json:"reply,omitempty"`
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	account, err := investor.ParseAccountID(mux.Vars(r)["account"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account", err.Error())
		return
	}
	var req InvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reply, handled := s.dispatcher.Dispatch(r.Context(), account, investor.CommandLabel, req.Args)
	if !handled {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(InvestResponse{Handled: false})
		return
	}
	respondJSON(w, InvestResponse{Handled: true, Reply: reply})
}

func (s *Server) handleGetHoldings(w http.ResponseWriter, r *http.Request) {
	account, err := investor.ParseAccountID(mux.Vars(r)["account"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account", err.Error())
		return
	}
	holdings, err := s.engine.Holdings(r.Context(), account)
	if err != nil {
		s.logger.Error("cannot list holdings", zap.Stringer("account", account), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "cannot list holdings", err.Error())
		return
	}
	if holdings == nil {
		holdings = []investor.Holding{}
	}
	respondJSON(w, holdings)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol, err := investor.ParseSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return
	}
	q, err := s.engine.Quote(r.Context(), symbol)
	var fetch *investor.QuoteFetchError
	switch {
	case err == nil:
		respondJSON(w, q)
	case errors.Is(err, investor.ErrInvalidQuote):
		respondError(w, http.StatusNotFound, "no price for symbol", err.Error())
	case errors.As(err, &fetch):
		respondError(w, http.StatusBadGateway, "error fetching stock", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "error fetching stock", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Details: details})
}
