package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/provgraph/pkg/buildinfo"
	"github.com/matzehuels/provgraph/pkg/layout"
	"github.com/matzehuels/provgraph/pkg/lineage"
	"github.com/matzehuels/provgraph/pkg/observability"
	"github.com/matzehuels/provgraph/pkg/pipeline"
	"github.com/matzehuels/provgraph/pkg/view"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

const maxBodyBytes = 1 << 20

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

type createRequest struct {
	Collapsed []string `json:"collapsed"`
}

type sessionResponse struct {
	ID       string                 `json:"id"`
	Snapshot view.Snapshot          `json:"snapshot"`
	Node     *layout.PositionedNode `json:"node,omitempty"`
}

type graphResponse struct {
	Nodes  []lineage.Node      `json:"nodes"`
	Edges  []lineage.Edge      `json:"edges"`
	Groups []lineage.GroupInfo `json:"groups"`
	Issues []lineage.Issue     `json:"issues"`
	Cycles [][]string          `json:"cycles,omitempty"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Nodes    int            `json:"nodes"`
	Sessions int            `json:"sessions"`
}

type errorBody struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Nodes:    s.Graph().NodeCount(),
		Sessions: s.sessions.len(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Graph()
	writeJSON(w, http.StatusOK, graphResponse{
		Nodes:  g.Nodes(),
		Edges:  g.Edges(),
		Groups: g.Groups(),
		Issues: g.Validate(),
		Cycles: g.CyclicComponents(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "invalid session request"))
		return
	}

	cfg := s.opts.View
	if req.Collapsed != nil {
		groups, err := parseGroups(req.Collapsed)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		cfg.Collapsed = groups
	}

	sess, snap, evicted := s.sessions.create(s.Graph(), cfg)
	if evicted != "" {
		s.logger.Debug("evicted session", "id", evicted)
	}
	observability.HTTP().OnSessions(r.Context(), s.sessions.len())
	s.logger.Debug("opened session", "id", sess.id)

	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.id, Snapshot: snap})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	snap := sess.ctrl.Snapshot()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.id, Snapshot: snap})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		s.writeError(w, r, perrors.New(perrors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	observability.HTTP().OnSessions(r.Context(), s.sessions.len())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var ev view.Event
	if err := decodeBody(r, &ev); err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "invalid event"))
		return
	}

	sess.mu.Lock()
	snap, err := sess.ctrl.Apply(ev)
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := sessionResponse{ID: sess.id, Snapshot: snap}
	if ev.Kind == view.EventClickNode {
		if n, ok := snap.Node(ev.NodeID); ok {
			resp.Node = &n
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var detailed bool
		if v := r.URL.Query().Get("detailed"); v != "" {
			if detailed, err = strconv.ParseBool(v); err != nil {
				s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "invalid detailed flag %q", v))
				return
			}
		}

		sess.mu.Lock()
		snap := sess.ctrl.Snapshot()
		sess.mu.Unlock()

		artifacts, err := s.runner.Render(r.Context(), snap, pipeline.Options{
			Formats:  []string{format},
			Detailed: detailed,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

// parseGroups normalizes tier names to their canonical spelling.
func parseGroups(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		t, err := lineage.ParseNodeType(name)
		if err != nil || !t.IsTier() {
			return nil, perrors.New(perrors.ErrCodeInvalidNodeType, "unknown group %q", name)
		}
		out = append(out, string(t))
	}
	return out, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": {"code", "message"}} with the status mapped
// from the error code. Uncoded errors are reported as internal errors.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := perrors.HTTPStatus(err)
	code := perrors.GetCode(err)
	msg := perrors.UserMessage(err)
	if code == "" || code == perrors.ErrCodeInternal {
		code = perrors.ErrCodeInternal
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: msg}})
}
