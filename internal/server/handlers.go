package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/launch-dashboard/internal/dashboard"
	"github.com/sells-group/launch-dashboard/internal/model"
	"github.com/sells-group/launch-dashboard/internal/view"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// httpError carries a status code to the client.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(w, r, err)
		}
	}
}

func replyError(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		writeError(w, he.status, he.msg)
	case eris.Is(err, dashboard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	default:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Server) getDataset(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, dashboard.Summarize(s.table, s.opts.Sites, s.opts.Slider))
	return nil
}

// controlsFromQuery reads ?site=&low=&high=, defaulting to every site and the full slider.
func (s *Server) controlsFromQuery(r *http.Request) (dashboard.Controls, error) {
	c := s.DefaultControls()
	q := r.URL.Query()

	if site := q.Get("site"); site != "" {
		c.Site = model.SiteSelector(site)
	}
	for name, dst := range map[string]*float64{"low": &c.Range.Low, "high": &c.Range.High} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, badRequest("%s must be a number", name)
		}
		*dst = v
	}

	if !s.opts.Slider.Allows(c.Range) {
		return c, badRequest("payload range [%v, %v] must be ordered and within [%v, %v]",
			c.Range.Low, c.Range.High, s.opts.Slider.Min, s.opts.Slider.Max)
	}
	return c, nil
}

func parseViewID(raw string) (view.ID, error) {
	id := view.ID(raw)
	for _, known := range view.IDs {
		if id == known {
			return id, nil
		}
	}
	return "", &httpError{status: http.StatusNotFound, msg: fmt.Sprintf("unknown view %q", raw)}
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) error {
	id, err := parseViewID(chi.URLParam(r, "view"))
	if err != nil {
		return err
	}
	controls, err := s.controlsFromQuery(r)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, s.builder.Build(id, controls))
	return nil
}

func (s *Server) pngHandler(id view.ID) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		controls, err := s.controlsFromQuery(r)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := s.renderer.Render(&buf, s.builder.Build(id, controls)); err != nil {
			return eris.Wrapf(err, "server: render %s", id)
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(buf.Bytes())
		return err
	}
}

type sessionResponse struct {
	ID       string             `json:"id"`
	Controls dashboard.Controls `json:"controls"`
	Figures  []view.Figure      `json:"figures"`
}

func (s *Server) postSession(w http.ResponseWriter, _ *http.Request) error {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:       sess.ID,
		Controls: sess.Controls(),
		Figures:  sess.Figures(),
	})
	return nil
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:       sess.ID,
		Controls: sess.Controls(),
		Figures:  sess.Figures(),
	})
	return nil
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) error {
	if err := s.sessions.Close(chi.URLParam(r, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// controlsPatch is a partial control update. Omitted controls keep their value.
type controlsPatch struct {
	Site         *string   `json:"site" validate:"omitnil,min=1"`
	PayloadRange []float64 `json:"payload_range" validate:"omitempty,len=2,dive,gte=0"`
}

func (p controlsPatch) events() []dashboard.Event {
	var events []dashboard.Event
	if p.Site != nil {
		events = append(events, dashboard.SiteChanged{Site: model.SiteSelector(*p.Site)})
	}
	if len(p.PayloadRange) == 2 {
		events = append(events, dashboard.RangeChanged{
			Range: model.MassRange{Low: p.PayloadRange[0], High: p.PayloadRange[1]},
		})
	}
	return events
}

func (s *Server) patchControls(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	var patch controlsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return badRequest("invalid request body")
	}
	if err := validate.Struct(patch); err != nil {
		return badRequest("invalid controls: %v", err)
	}
	if len(patch.PayloadRange) == 2 {
		rng := model.MassRange{Low: patch.PayloadRange[0], High: patch.PayloadRange[1]}
		if !s.opts.Slider.Allows(rng) {
			return badRequest("payload range [%v, %v] must be ordered and within [%v, %v]",
				rng.Low, rng.High, s.opts.Slider.Min, s.opts.Slider.Max)
		}
	}

	updated, err := s.sessions.Update(id, patch.events()...)
	if err != nil {
		return err
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}

	if updated == nil {
		updated = []view.Figure{}
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:       id,
		Controls: sess.Controls(),
		Figures:  updated,
	})
	return nil
}
