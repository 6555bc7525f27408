package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/linebreak/pkg/breakgraph"
	"github.com/matzehuels/linebreak/pkg/buildinfo"
	"github.com/matzehuels/linebreak/pkg/errors"
	lbio "github.com/matzehuels/linebreak/pkg/io"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/pipeline"
	"github.com/matzehuels/linebreak/pkg/text"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type breakRequest struct {
	Sequence json.RawMessage `json:"sequence"`
	Options  json.RawMessage `json:"options,omitempty"`
}

type textRequest struct {
	Text    string          `json:"text"`
	Options json.RawMessage `json:"options,omitempty"`
}

type graphRequest struct {
	Sequence     json.RawMessage `json:"sequence"`
	Options      json.RawMessage `json:"options,omitempty"`
	Format       string          `json:"format,omitempty"`
	Detailed     bool            `json:"detailed,omitempty"`
	SelectedOnly bool            `json:"selected_only,omitempty"`
}

type breakResponse struct {
	RunID      string       `json:"run_id"`
	Hash       string       `json:"hash"`
	Parts      []knuth.Part `json:"parts"`
	Demerits   float64      `json:"demerits"`
	Passes     int          `json:"passes"`
	Overflow   bool         `json:"overflow"`
	CacheHit   bool         `json:"cache_hit"`
	Elements   int          `json:"elements"`
	DurationMS float64      `json:"duration_ms"`
}

type lineResponse struct {
	Number   int     `json:"number"`
	Text     string  `json:"text"`
	Width    int     `json:"width"`
	Ratio    float64 `json:"ratio"`
	Overflow bool    `json:"overflow,omitempty"`
}

type textResponse struct {
	breakResponse
	Lines    []lineResponse `json:"lines"`
	Rendered string         `json:"rendered"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleBreak(w http.ResponseWriter, r *http.Request) {
	var req breakRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	seq, err := decodeSequence(req.Sequence)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.options(r, req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Break(r.Context(), seq, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBreakResponse(res))
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.options(r, req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.BreakText(r.Context(), req.Text, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := textResponse{breakResponse: newBreakResponse(res), Lines: make([]lineResponse, len(res.Lines))}
	for i, l := range res.Lines {
		out.Lines[i] = lineResponse{Number: l.Number, Text: l.Text, Width: l.Width, Ratio: l.Ratio, Overflow: l.Overflow}
	}
	align, last := opts.Alignments()
	out.Rendered = text.Render(res.Lines, align, last, opts.UnitsPerCell)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if req.Format == pipeline.FormatPNG {
		s.fail(w, r, errors.New(errors.ErrCodeUnsupported, "png graphs are only available from the CLI"))
		return
	}
	seq, err := decodeSequence(req.Sequence)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.options(r, req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	gopts := breakgraph.Options{Detailed: req.Detailed, SelectedOnly: req.SelectedOnly}
	data, hit, err := s.runner.GraphWithCacheInfo(r.Context(), seq, req.Format, gopts, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := "image/svg+xml"
	if req.Format == pipeline.FormatDOT {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

// options layers the request options over the server defaults and
// validates the result.
func (s *Server) options(r *http.Request, raw json.RawMessage) (pipeline.Options, error) {
	opts := s.cfg.Defaults.Clone()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode options")
		}
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func decodeSequence(raw json.RawMessage) (*knuth.Sequence, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSequence, "missing sequence")
	}
	seq, err := lbio.UnmarshalSequence(raw)
	switch {
	case err == nil:
		return seq, nil
	case stderrors.Is(err, knuth.ErrInvalidAtom), stderrors.Is(err, lbio.ErrUnknownType):
		return nil, errors.Wrap(errors.ErrCodeInvalidAtom, err, "invalid element")
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidSequence, err, "invalid sequence")
	}
}

func newBreakResponse(res *pipeline.Result) breakResponse {
	parts := res.Parts
	if parts == nil {
		parts = []knuth.Part{}
	}
	return breakResponse{
		RunID:      res.RunID,
		Hash:       res.Hash,
		Parts:      parts,
		Demerits:   res.Demerits,
		Passes:     res.Passes,
		Overflow:   res.Overflow,
		CacheHit:   res.CacheHit,
		Elements:   res.Stats.Elements,
		DurationMS: float64(res.Stats.Duration.Microseconds()) / 1000,
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeErrorStatus(w, status, err, RequestID(r.Context()))
}

func writeErrorStatus(w http.ResponseWriter, status int, err error, requestID string) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   message(err),
		RequestID: requestID,
	}})
}

// message renders err without its code prefix.
func message(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return "internal error"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
