package server

import (
	"net/http"
	"strconv"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/report"
)

type documentRequest struct {
	Source   string `json:"source"`
	Language string `json:"language"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

func (req documentRequest) validate() (feature.Language, error) {
	if err := bserrors.ValidateSource(req.Source); err != nil {
		return "", err
	}
	if err := bserrors.ValidateLanguage(req.Language); err != nil {
		return "", err
	}
	return feature.ParseLanguage(req.Language), nil
}

type featuresResponse struct {
	Features []feature.Detected `json:"features"`
}

// resolveResponse carries a nil Feature when nothing is at the position.
type resolveResponse struct {
	Feature *feature.Detected `json:"feature"`
	Hover   string            `json:"hover,omitempty"`
}

func newResolveResponse(f feature.Detected, ok bool) resolveResponse {
	if !ok {
		return resolveResponse{}
	}
	return resolveResponse{Feature: &f, Hover: report.Hover(f)}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lang, err := req.validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, featuresResponse{Features: s.detector.Detect(r.Context(), req.Source, lang)})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lang, err := req.validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bserrors.ValidatePosition(req.Line, req.Column); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, ok := s.detector.FeatureAt(r.Context(), req.Source, lang, req.Line, req.Column)
	s.writeJSON(w, http.StatusOK, newResolveResponse(f, ok))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lang, err := req.validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	features := s.detector.Detect(r.Context(), req.Source, lang)
	s.writeJSON(w, http.StatusOK, report.Generate(features))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeInternal, err, "create session"))
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionDetect(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lang, err := req.validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r.Context())
	s.writeJSON(w, http.StatusOK, featuresResponse{Features: sess.Detect.DetectWithCache(r.Context(), req.Source, lang)})
}

func (s *Server) handleSessionResolve(w http.ResponseWriter, r *http.Request) {
	line, err1 := strconv.Atoi(r.URL.Query().Get("line"))
	column, err2 := strconv.Atoi(r.URL.Query().Get("column"))
	if err1 != nil || err2 != nil {
		s.writeError(w, r, bserrors.New(bserrors.ErrCodeInvalidPosition, "line and column must be integers"))
		return
	}
	if err := bserrors.ValidatePosition(line, column); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, ok := sessionFrom(r.Context()).Detect.CachedFeatureAt(line, column)
	s.writeJSON(w, http.StatusOK, newResolveResponse(f, ok))
}

func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).Detect.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type catalogResponse struct {
	Features []webstatus.Feature `json:"features"`
	Count    int                 `json:"count"`
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, bserrors.New(bserrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	features, err := s.catalog.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeNetwork, err, "feature catalog unavailable"))
		return
	}
	matched := webstatus.Filter(features, q.Get("q"), q.Get("status"), limit)
	if matched == nil {
		matched = []webstatus.Feature{}
	}
	s.writeJSON(w, http.StatusOK, catalogResponse{Features: matched, Count: len(matched)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	features, err := s.catalog.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, bserrors.Wrap(bserrors.ErrCodeNetwork, err, "feature catalog unavailable"))
		return
	}
	s.writeJSON(w, http.StatusOK, webstatus.Count(features))
}
