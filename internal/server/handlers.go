package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/blobgeom/pkg/buildinfo"
	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/pipeline"
	"github.com/matzehuels/blobgeom/pkg/scene"
	"github.com/matzehuels/blobgeom/pkg/shape"
	"github.com/matzehuels/blobgeom/pkg/skeleton"
)

type sceneResponse struct {
	ID    string       `json:"id"`
	Scene *scene.Scene `json:"scene"`
}

type shapeResponse struct {
	ID    shape.ID        `json:"id"`
	Shape scene.ShapeSpec `json:"shape"`
}

// shapePatch moves or resizes a shape. Omitted fields keep their value.
type shapePatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
}

// tickRequest drives one animation step. Options replace the scene options
// for this tick only; Dissolve is applied on top of either.
type tickRequest struct {
	Options  *pipeline.Options `json:"options,omitempty"`
	Dissolve *float64          `json:"dissolve,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"build":  buildinfo.Get(),
		"scenes": s.store.Len(),
	})
}

func (s *Server) createScene(w http.ResponseWriter, r *http.Request) {
	sc := &scene.Scene{}
	if err := decodeBody(w, r, sc, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.store.Create(r.Context(), sc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sceneResponse{ID: id, Scene: sc})
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var resp sceneResponse
	err := s.store.With(r.Context(), id, false, func(e *entry) error {
		resp = sceneResponse{ID: e.id, Scene: e.snapshot()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// replaceScene swaps the whole scene, keeping its id. The engine restarts
// from scratch.
func (s *Server) replaceScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sc := &scene.Scene{}
	if err := decodeBody(w, r, sc, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sc.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	arena, err := sc.Arena()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp sceneResponse
	err = s.store.With(r.Context(), id, true, func(e *entry) error {
		e.scene = sc
		e.arena = arena
		e.engine.Reset()
		resp = sceneResponse{ID: e.id, Scene: e.snapshot()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) replaceShapes(w http.ResponseWriter, r *http.Request) {
	var specs []scene.ShapeSpec
	if err := decodeBody(w, r, &specs, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp sceneResponse
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), true, func(e *entry) error {
		next := *e.scene
		next.Shapes = specs
		arena, err := next.Arena()
		if err != nil {
			return err
		}
		e.arena = arena
		resp = sceneResponse{ID: e.id, Scene: e.snapshot()}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addShape(w http.ResponseWriter, r *http.Request) {
	var spec scene.ShapeSpec
	if err := decodeBody(w, r, &spec, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp shapeResponse
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), true, func(e *entry) error {
		id, err := e.arena.Add(spec.Shape())
		if err != nil {
			return err
		}
		sh, _ := e.arena.Get(id)
		resp = shapeResponse{ID: id, Shape: scene.Spec(sh)}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) updateShape(w http.ResponseWriter, r *http.Request) {
	shapeID, err := parseShapeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch shapePatch
	if err := decodeBody(w, r, &patch, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp shapeResponse
	err = s.store.With(r.Context(), chi.URLParam(r, "id"), true, func(e *entry) error {
		sh, ok := e.arena.Get(shapeID)
		if !ok {
			return errors.New(errors.ErrCodeShapeNotFound, "shape %d not found", shapeID)
		}
		if patch.X != nil || patch.Y != nil {
			c := sh.Center
			if patch.X != nil {
				c.X = *patch.X
			}
			if patch.Y != nil {
				c.Y = *patch.Y
			}
			if err := e.arena.Move(shapeID, c); err != nil {
				return err
			}
		}
		if patch.Radius != nil {
			if err := e.arena.Resize(shapeID, *patch.Radius); err != nil {
				return err
			}
		}
		sh, _ = e.arena.Get(shapeID)
		resp = shapeResponse{ID: shapeID, Shape: scene.Spec(sh)}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteShape(w http.ResponseWriter, r *http.Request) {
	shapeID, err := parseShapeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.store.With(r.Context(), chi.URLParam(r, "id"), true, func(e *entry) error {
		return e.arena.Remove(shapeID)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tick advances the scene's engine. Unchanged stages are reused between
// calls, so clients animating dissolve only pay for the later stages.
func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	var frame *pipeline.Frame
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), false, func(e *entry) error {
		opts := e.scene.Options()
		if req.Options != nil {
			opts = *req.Options
		}
		if req.Dissolve != nil {
			opts.Dissolve = *req.Dissolve
		}
		var err error
		frame, err = e.engine.Tick(r.Context(), e.arena.Snapshot(), opts)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) skeleton(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = skeleton.FormatDOT
	}
	if err := errors.ValidateFormat(format, skeleton.Formats...); err != nil {
		s.writeError(w, r, err)
		return
	}
	format = strings.ToLower(format)

	var (
		shapes []shape.Shape
		opts   pipeline.Options
	)
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), false, func(e *entry) error {
		shapes = e.arena.Snapshot()
		opts = e.scene.Options()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	frame, err := s.runner.Compute(r.Context(), shapes, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.runner.Skeleton(r.Context(), frame, shapes, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == skeleton.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// frame computes a frame for a posted scene without storing it. Results are
// cached by content, so repeated requests are served from the cache.
func (s *Server) frame(w http.ResponseWriter, r *http.Request) {
	sc := &scene.Scene{}
	if err := decodeBody(w, r, sc, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sc.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	arena, err := sc.Arena()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := sc.Options()
	opts.Refresh, _ = strconv.ParseBool(r.URL.Query().Get("refresh"))

	frame, _, err := s.runner.ComputeWithCacheInfo(r.Context(), arena.Shapes(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func parseShapeID(r *http.Request) (shape.ID, error) {
	raw := chi.URLParam(r, "shapeID")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid shape id %q", raw)
	}
	return shape.ID(n), nil
}
