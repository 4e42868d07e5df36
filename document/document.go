// Package document reads and writes YAML and TOML descriptions of NURBS
// curves and surfaces.
//
// A document holds either a curve or a surface. Knot vectors are given
// directly or as breakpoints with interior continuities; points have two
// or three coordinates, and two-dimensional points lie in the plane z = 0.
// Surface points list the control grid with direction 1 varying fastest.
package document

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexozer/nurbs"
	"github.com/pelletier/go-toml/v2"
	"github.com/ungerik/go3d/float64/vec3"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFormat is returned for file names without a known extension.
	ErrFormat = errors.New("document: unknown format")

	// ErrEmpty is returned when a document describes neither a curve nor a
	// surface, or both.
	ErrEmpty = errors.New("document: exactly one of curve or surface required")
)

// Document is the top level of a description file.
type Document struct {
	Curve   *Curve   `yaml:"curve,omitempty" toml:"curve,omitempty"`
	Surface *Surface `yaml:"surface,omitempty" toml:"surface,omitempty"`
}

// Breakpoints describe a clamped knot vector by its distinct values and the
// continuity at each interior value.
type Breakpoints struct {
	Values     []float64 `yaml:"values" toml:"values"`
	Degree     int       `yaml:"degree" toml:"degree"`
	Continuity []int     `yaml:"continuity,omitempty" toml:"continuity,omitempty"`
}

func (bp *Breakpoints) nurbs() nurbs.Breakpoints {
	return nurbs.Breakpoints{Values: bp.Values, Degree: bp.Degree, Continuity: bp.Continuity}
}

// Curve describes a curve. Knots take precedence over Breakpoints.
type Curve struct {
	Knots       []float64    `yaml:"knots,omitempty" toml:"knots,omitempty"`
	Breakpoints *Breakpoints `yaml:"breakpoints,omitempty" toml:"breakpoints,omitempty"`
	Points      [][]float64  `yaml:"points" toml:"points"`
	Weights     []float64    `yaml:"weights,omitempty" toml:"weights,omitempty"`
	Tolerance   float64      `yaml:"tolerance,omitempty" toml:"tolerance,omitempty"`
}

// Surface describes a surface. Knots1 and Knots2 take precedence over the
// breakpoints of the same direction.
type Surface struct {
	Knots1       []float64    `yaml:"knots1,omitempty" toml:"knots1,omitempty"`
	Knots2       []float64    `yaml:"knots2,omitempty" toml:"knots2,omitempty"`
	Breakpoints1 *Breakpoints `yaml:"breakpoints1,omitempty" toml:"breakpoints1,omitempty"`
	Breakpoints2 *Breakpoints `yaml:"breakpoints2,omitempty" toml:"breakpoints2,omitempty"`
	Points       [][]float64  `yaml:"points" toml:"points"`
	Weights      []float64    `yaml:"weights,omitempty" toml:"weights,omitempty"`
	Tolerance    float64      `yaml:"tolerance,omitempty" toml:"tolerance,omitempty"`
}

// Build returns a curve configured from the description.
func (c *Curve) Build() (*nurbs.Curve, error) {
	pts, err := points(c.Points)
	if err != nil {
		return nil, err
	}

	curve := nurbs.NewCurve(nurbs.WithTolerance(c.Tolerance))
	switch {
	case c.Knots != nil:
		err = curve.Set(c.Knots, pts, c.Weights)
	case c.Breakpoints != nil:
		err = curve.SetFromBreakpoints(c.Breakpoints.nurbs(), pts, c.Weights)
	default:
		err = fmt.Errorf("%w: curve has neither knots nor breakpoints", nurbs.ErrUnset)
	}
	if err != nil {
		return nil, err
	}
	return curve, nil
}

// Build returns a surface configured from the description.
func (s *Surface) Build() (*nurbs.Surface, error) {
	pts, err := points(s.Points)
	if err != nil {
		return nil, err
	}

	knots1, err := knots(s.Knots1, s.Breakpoints1)
	if err != nil {
		return nil, fmt.Errorf("direction 1: %w", err)
	}
	knots2, err := knots(s.Knots2, s.Breakpoints2)
	if err != nil {
		return nil, fmt.Errorf("direction 2: %w", err)
	}

	surface := nurbs.NewSurface(nurbs.WithTolerance(s.Tolerance))
	if err := surface.Set(knots1, knots2, pts, s.Weights); err != nil {
		return nil, err
	}
	return surface, nil
}

// knots resolves the knot vector of one direction.
func knots(kv []float64, bp *Breakpoints) ([]float64, error) {
	if kv != nil {
		return kv, nil
	}
	if bp == nil {
		return nil, fmt.Errorf("%w: neither knots nor breakpoints", nurbs.ErrUnset)
	}
	return bp.nurbs().Knots()
}

func points(coords [][]float64) ([]vec3.T, error) {
	pts := make([]vec3.T, len(coords))
	for i, c := range coords {
		if len(c) != 2 && len(c) != 3 {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, want 2 or 3",
				nurbs.ErrDimensionMismatch, i, len(c))
		}
		copy(pts[i][:], c)
	}
	return pts, nil
}

func coords(pts []vec3.T) [][]float64 {
	out := make([][]float64, len(pts))
	for i := range pts {
		out[i] = []float64{pts[i][0], pts[i][1], pts[i][2]}
	}
	return out
}

// tolerance leaves the default out of written documents.
func tolerance(tol float64) float64 {
	if tol == nurbs.DefaultTolerance {
		return 0
	}
	return tol
}

// FromCurve describes an existing curve by its knots.
func FromCurve(c *nurbs.Curve) *Document {
	return &Document{Curve: &Curve{
		Knots:     c.Knots(),
		Points:    coords(c.ControlPoints()),
		Weights:   c.Weights(),
		Tolerance: tolerance(c.Tolerance()),
	}}
}

// FromSurface describes an existing surface by its knots.
func FromSurface(s *nurbs.Surface) (*Document, error) {
	knots1, err := s.Knots(1)
	if err != nil {
		return nil, err
	}
	knots2, err := s.Knots(2)
	if err != nil {
		return nil, err
	}
	return &Document{Surface: &Surface{
		Knots1:    knots1,
		Knots2:    knots2,
		Points:    coords(s.ControlPoints()),
		Weights:   s.Weights(),
		Tolerance: tolerance(s.Tolerance()),
	}}, nil
}

// Validate checks that the document holds exactly one entity.
func (d *Document) Validate() error {
	if (d.Curve == nil) == (d.Surface == nil) {
		return ErrEmpty
	}
	return nil
}

// Decoder is an interface for standard decoder types
type Decoder interface {
	// Decode decodes from io.Reader specified at creation
	Decode(v any) error
}

// DecoderFunc is a function that creates a new Decoder for given reader
type DecoderFunc func(r io.Reader) Decoder

// Encoder is an interface for standard encoder types
type Encoder interface {
	// Encode encodes to io.Writer specified at creation
	Encode(v any) error
}

// EncoderFunc is a function that creates a new Encoder for given writer
type EncoderFunc func(w io.Writer) Encoder

// Format pairs the decoder and encoder of one file format.
type Format struct {
	Name    string
	Decoder DecoderFunc
	Encoder EncoderFunc
}

var (
	YAML = Format{
		Name: "yaml",
		Decoder: func(r io.Reader) Decoder {
			d := yaml.NewDecoder(r)
			d.KnownFields(true)
			return d
		},
		Encoder: func(w io.Writer) Encoder {
			e := yaml.NewEncoder(w)
			e.SetIndent(2)
			return e
		},
	}

	TOML = Format{
		Name: "toml",
		Decoder: func(r io.Reader) Decoder {
			d := toml.NewDecoder(r)
			d.DisallowUnknownFields()
			return d
		},
		Encoder: func(w io.Writer) Encoder {
			return toml.NewEncoder(w)
		},
	}
)

// FormatFor picks the format from the extension of filename.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return Format{}, fmt.Errorf("%w: %q", ErrFormat, filename)
}

// Open reads a document from the given filename, choosing the format by
// extension.
func Open(filename string) (*Document, error) {
	f, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Read(bufio.NewReader(fp), f)
}

// Read reads a document from the given reader using the given format.
func Read(reader io.Reader, f Format) (*Document, error) {
	var doc Document
	if err := f.Decoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadBytes reads a document from the given bytes using the given format.
func ReadBytes(data []byte, f Format) (*Document, error) {
	return Read(bytes.NewReader(data), f)
}

// Write encodes the document to w using the given format.
func Write(w io.Writer, doc *Document, f Format) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	e := f.Encoder(w)
	if err := e.Encode(doc); err != nil {
		return err
	}
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Save writes the document to filename, choosing the format by extension.
func Save(filename string, doc *Document) error {
	f, err := FormatFor(filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, f); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0666)
}
