// Package scene reads and writes scene files.
//
// A scene lists shapes and the pipeline options used to render them. Scenes
// are stored as TOML or JSON; the format follows the file extension.
//
// # TOML Format
//
//	name = "two blobs"
//	dissolve = 0.0
//	seed = 7
//
//	[cluster]
//	closeness = 0.6
//
//	[star]
//	outer_offset_ratio = 0.3
//	wings = 9
//
//	[[shape]]
//	id = 1
//	x = 0.0
//	y = 0.0
//	radius = 30.0
//
// Omitted options take the pipeline defaults. Unknown keys are rejected so
// typos do not silently fall back to defaults.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blobgeom/pkg/cluster"
	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/fill"
	"github.com/matzehuels/blobgeom/pkg/geom"
	"github.com/matzehuels/blobgeom/pkg/pipeline"
	"github.com/matzehuels/blobgeom/pkg/shape"
	"github.com/matzehuels/blobgeom/pkg/star"
)

// Scene formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ShapeSpec is a shape as written in a scene file.
type ShapeSpec struct {
	ID     uint32  `json:"id" toml:"id"`
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Radius float64 `json:"radius" toml:"radius"`
}

// Scene is a decoded scene file.
type Scene struct {
	Name   string      `json:"name,omitempty" toml:"name,omitempty"`
	Shapes []ShapeSpec `json:"shapes" toml:"shape"`

	Cluster         cluster.Params `json:"cluster" toml:"cluster"`
	Star            star.Params    `json:"star" toml:"star"`
	Fill            fill.Options   `json:"fill" toml:"fill"`
	Dissolve        float64        `json:"dissolve" toml:"dissolve"`
	DissolveOffset  float64        `json:"dissolve_offset,omitempty" toml:"dissolve_offset,omitempty"`
	FillSource      string         `json:"fill_source,omitempty" toml:"fill_source,omitempty"`
	CoarseTolerance float64        `json:"coarse_tolerance,omitempty" toml:"coarse_tolerance,omitempty"`
	FineTolerance   float64        `json:"fine_tolerance,omitempty" toml:"fine_tolerance,omitempty"`
	Seed            uint64         `json:"seed,omitempty" toml:"seed,omitempty"`
}

// FormatFor returns the scene format implied by a file name.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"cannot infer scene format from %q (want .toml or .json)", filepath.Base(path))
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a scene in the given format and validates it.
func Decode(r io.Reader, format string) (*Scene, error) {
	if err := errors.ValidateFormat(format, FormatTOML, FormatJSON); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	var s Scene
	switch strings.ToLower(format) {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse TOML scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown scene keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse JSON scene")
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks shapes and options.
func (s *Scene) Validate() error {
	if _, err := s.Arena(); err != nil {
		return err
	}
	opts := s.Options()
	opts.SetDefaults()
	return opts.Validate()
}

// Arena builds a shape arena from the scene in file order. Shapes without
// an ID are numbered after the highest explicit ID.
func (s *Scene) Arena() (*shape.Arena, error) {
	var next shape.ID
	for _, sp := range s.Shapes {
		next = max(next, shape.ID(sp.ID))
	}
	shapes := make([]shape.Shape, len(s.Shapes))
	for i, sp := range s.Shapes {
		shapes[i] = sp.Shape()
		if shapes[i].ID == 0 {
			next++
			shapes[i].ID = next
		}
	}
	a, err := shape.NewArena(shapes...)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "scene %q", s.Name)
	}
	return a, nil
}

// Options returns the pipeline options described by the scene. Zero values
// are left for pipeline.Options.SetDefaults.
func (s *Scene) Options() pipeline.Options {
	opts := pipeline.Options{
		Cluster:         s.Cluster,
		Star:            s.Star,
		Fill:            s.Fill,
		Dissolve:        s.Dissolve,
		DissolveOffset:  s.DissolveOffset,
		FillSource:      s.FillSource,
		CoarseTolerance: s.CoarseTolerance,
		FineTolerance:   s.FineTolerance,
	}
	if s.Seed != 0 {
		opts.Fill.Seed = s.Seed
	}
	return opts
}

// SetShapes replaces the scene shapes.
func (s *Scene) SetShapes(shapes []shape.Shape) {
	s.Shapes = make([]ShapeSpec, len(shapes))
	for i, sh := range shapes {
		s.Shapes[i] = Spec(sh)
	}
}

// Shape converts sp to a shape.
func (sp ShapeSpec) Shape() shape.Shape {
	return shape.Shape{ID: shape.ID(sp.ID), Center: geom.Pt(sp.X, sp.Y), Radius: sp.Radius}
}

// Spec converts a shape to its file representation.
func Spec(s shape.Shape) ShapeSpec {
	return ShapeSpec{ID: uint32(s.ID), X: s.Center.X, Y: s.Center.Y, Radius: s.Radius}
}

// Encode writes s in the given format.
func Encode(w io.Writer, s *Scene, format string) error {
	if err := errors.ValidateFormat(format, FormatTOML, FormatJSON); err != nil {
		return err
	}
	if strings.EqualFold(format, FormatTOML) {
		return toml.NewEncoder(w).Encode(s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFrame writes frame as indented JSON.
func WriteFrame(w io.Writer, frame *pipeline.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frame)
}

// Example returns a small two-cluster scene.
func Example() *Scene {
	s := &Scene{
		Name: "example",
		Shapes: []ShapeSpec{
			{ID: 1, X: 0, Y: 0, Radius: 30},
			{ID: 2, X: 70, Y: 10, Radius: 25},
			{ID: 3, X: 40, Y: 80, Radius: 20},
			{ID: 4, X: 260, Y: 40, Radius: 35},
		},
		Cluster: cluster.DefaultParams(),
		Star:    star.Params{OuterOffsetRatio: 0.3, Roundness: 0.5, WingCount: 9},
	}
	return s
}
