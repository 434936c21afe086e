package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"reviewlens/internal/auth"
	"reviewlens/internal/config"
	"reviewlens/internal/scoring"
	"reviewlens/internal/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, err := s.deps.Auth.Signup(r.Context(), body.Email, body.Password)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.deps.Metrics.SignupsTotal.Add(1)
	s.jsonResponse(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, err := s.deps.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.deps.Metrics.LoginsTotal.Add(1)
	s.jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()

	scored, err := s.analyzeProduct(ctx, body.URL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.deps.Metrics.AnalysesTotal.Add(1)

	// History is best-effort for authenticated callers; anonymous
	// analysis stays available.
	if owner, ok := s.owner(r); ok {
		if err := s.deps.Store.SaveAnalysis(ctx, owner, scored); err != nil {
			s.logger.Error("failed to save analysis history", "owner", owner, "error", err)
		}
	}

	s.jsonResponse(w, http.StatusOK, scored)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URLA string `json:"url_a"`
		URLB string `json:"url_b"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URLA == body.URLB {
		s.jsonError(w, http.StatusBadRequest, "comparison requires two distinct product URLs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()

	var (
		wg         sync.WaitGroup
		scoredA    *types.ScoredProduct
		scoredB    *types.ScoredProduct
		errA, errB error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		scoredA, errA = s.analyzeProduct(ctx, body.URLA)
	}()
	go func() {
		defer wg.Done()
		scoredB, errB = s.analyzeProduct(ctx, body.URLB)
	}()
	wg.Wait()

	if errA != nil {
		s.errorResponse(w, errA)
		return
	}
	if errB != nil {
		s.errorResponse(w, errB)
		return
	}

	result := scoring.Compare(scoredA, scoredB)
	s.deps.Metrics.ComparisonsTotal.Add(1)

	if owner, ok := s.owner(r); ok {
		if err := s.deps.Store.SaveComparison(ctx, owner, result); err != nil {
			s.logger.Error("failed to save comparison history", "owner", owner, "error", err)
		}
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(r)
	if !ok {
		s.errorResponse(w, types.ErrUnauthorized)
		return
	}

	records, err := s.deps.Store.History(r.Context(), owner)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if records == nil {
		records = []types.HistoryRecord{}
	}
	s.jsonResponse(w, http.StatusOK, records)
}

// owner resolves the authenticated account from the bearer token, if
// any.
func (s *Server) owner(r *http.Request) (string, bool) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", false
	}
	owner, err := s.deps.Auth.Verify(token)
	if err != nil {
		return "", false
	}
	return owner, true
}

// errorResponse maps pipeline errors onto HTTP statuses.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.deps.Metrics.RequestsFailed.Add(1)

	var fetchErr *types.FetchError
	var modelErr *types.ModelError
	var storageErr *types.StorageError

	switch {
	case errors.Is(err, types.ErrInvalidURL):
		s.jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrUnauthorized), errors.Is(err, types.ErrBadCredentials):
		s.jsonError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, types.ErrUserExists):
		s.jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrProductNotFound), errors.Is(err, types.ErrNoReviews):
		s.jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		s.jsonError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &fetchErr):
		s.jsonError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &modelErr):
		s.jsonError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &storageErr):
		s.jsonError(w, http.StatusInternalServerError, "storage failure")
	default:
		s.logger.Error("unhandled request error", "error", err)
		s.jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
