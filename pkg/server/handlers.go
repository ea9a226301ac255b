package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/drainstack/pkg/buildinfo"
	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
	"github.com/matzehuels/drainstack/pkg/pipeline"
)

type orderRequest struct {
	Receivers []int  `json:"receivers"`
	Roots     []int  `json:"roots,omitempty"`
	Builder   string `json:"builder,omitempty"`
	MaxDepth  int    `json:"max_depth,omitempty"`
	Workers   int    `json:"workers,omitempty"`
	Verify    bool   `json:"verify,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type verifyRequest struct {
	Receivers []int `json:"receivers"`
	Roots     []int `json:"roots,omitempty"`
	Stack     []int `json:"stack"`
}

type verifyResponse struct {
	Valid bool         `json:"valid"`
	Error *errorDetail `json:"error,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	nw, err := network(req.Receivers, req.Roots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Builder:  req.Builder,
		MaxDepth: req.MaxDepth,
		Workers:  s.capWorkers(req.Workers),
		Verify:   req.Verify,
		Refresh:  req.Refresh,
	}
	res, err := s.runner.Order(r.Context(), nw, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.CacheInfo.OrderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, res.Order)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	nw, err := network(req.Receivers, req.Roots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.runner.Verify(r.Context(), nw, req.Stack, pipeline.Options{})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, verifyResponse{Valid: true})
	case errors.Is(err, errors.ErrCodeInvalidStack):
		writeJSON(w, http.StatusOK, verifyResponse{Error: &errorDetail{
			Code:    errors.ErrCodeInvalidStack,
			Message: errors.UserMessage(err),
		}})
	default:
		s.writeError(w, r, err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	nw, err := network(req.Receivers, req.Roots)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	ropts := pipeline.RenderOptions{
		Format:   q.Get("format"),
		Detailed: q.Get("detailed") == "true",
		Clusters: q.Get("clusters") == "true",
	}
	data, _, err := s.runner.Render(r.Context(), nw, pipeline.Options{Builder: req.Builder}, ropts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if ropts.Format == pipeline.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a JSON body into v, bounded by the configured size limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return err
		}
		if stderrors.Is(err, io.EOF) {
			return errors.New(errors.ErrCodeInvalidFormat, "empty request body")
		}
		return errors.New(errors.ErrCodeInvalidFormat, "decode request: %v", err)
	}
	return nil
}

func (s *Server) capWorkers(n int) int {
	if s.cfg.Workers > 0 && n > s.cfg.Workers {
		return s.cfg.Workers
	}
	return n
}

func network(receivers, roots []int) (*drainage.Network, error) {
	if err := errors.ValidateNodeCount(len(receivers), 0); err != nil {
		return nil, err
	}
	return &drainage.Network{Receivers: receivers, Roots: roots}, nil
}
