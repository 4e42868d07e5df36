package main

import (
	"fmt"
	"io"

	"github.com/alexozer/nurbs"
	"github.com/alexozer/nurbs/document"
	"github.com/ungerik/go3d/float64/vec3"
)

// entity is the curve or surface of one loaded document.
type entity struct {
	format  document.Format
	curve   *nurbs.Curve
	surface *nurbs.Surface
}

func load(filename string) (*entity, error) {
	format, err := document.FormatFor(filename)
	if err != nil {
		return nil, err
	}
	doc, err := document.Open(filename)
	if err != nil {
		return nil, err
	}

	e := &entity{format: format}
	if doc.Curve != nil {
		e.curve, err = doc.Curve.Build()
	} else {
		e.surface, err = doc.Surface.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return e, nil
}

// save writes the entity to filename, or to w in the input format when
// filename is empty.
func (e *entity) save(w io.Writer, filename string) error {
	var doc *document.Document
	if e.curve != nil {
		doc = document.FromCurve(e.curve)
	} else {
		var err error
		if doc, err = document.FromSurface(e.surface); err != nil {
			return err
		}
	}

	if filename != "" {
		return document.Save(filename, doc)
	}
	return document.Write(w, doc, e.format)
}

func (e *entity) info(w io.Writer) error {
	if e.curve != nil {
		fmt.Fprintln(w, "curve")
		return curveInfo(w, e.curve)
	}

	fmt.Fprintln(w, "surface")
	for _, dir := range []int{1, 2} {
		degree, err := e.surface.Degree(dir)
		if err != nil {
			return err
		}
		count, err := e.surface.Count(dir)
		if err != nil {
			return err
		}
		knots, err := e.surface.Knots(dir)
		if err != nil {
			return err
		}
		cont, err := e.surface.Continuity(dir)
		if err != nil {
			return err
		}
		min, max, err := e.surface.Domain(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "direction %d:\n", dir)
		fmt.Fprintf(w, "  degree: %d\n  control points: %d\n  knots: %v\n  continuity: %v\n  domain: [%g, %g]\n",
			degree, count, knots, cont, min, max)
	}
	rational, err := e.surface.IsRational()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "rational: %t\n", rational)

	bb, err := e.surface.BoundingBox()
	if err != nil {
		return err
	}
	printBounds(w, bb)
	return nil
}

func printBounds(w io.Writer, bb *nurbs.BoundingBox) {
	fmt.Fprintf(w, "bounds: [%g %g %g] [%g %g %g]\n",
		bb.Min[0], bb.Min[1], bb.Min[2], bb.Max[0], bb.Max[1], bb.Max[2])
}

func curveInfo(w io.Writer, c *nurbs.Curve) error {
	degree, err := c.Degree()
	if err != nil {
		return err
	}
	mults, err := c.Multiplicity()
	if err != nil {
		return err
	}
	cont, err := c.Continuity()
	if err != nil {
		return err
	}
	rational, err := c.IsRational()
	if err != nil {
		return err
	}
	min, max, err := c.Domain()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "degree: %d\ncontrol points: %d\nknots: %v\nmultiplicities: %v\ncontinuity: %v\ndomain: [%g, %g]\nrational: %t\n",
		degree, len(c.ControlPoints()), c.Knots(), mults, cont, min, max, rational)

	bb, err := c.BoundingBox()
	if err != nil {
		return err
	}
	printBounds(w, bb)
	return nil
}

func (e *entity) evaluate(n1, n2 int) ([]vec3.T, error) {
	if e.curve != nil {
		return e.curve.EvaluateUniform(n1)
	}
	return e.surface.EvaluateUniform(n1, n2)
}

func (e *entity) insertKnot(dir int, t float64, r int) error {
	if e.curve != nil {
		return e.curve.InsertKnot(t, r)
	}
	return e.surface.InsertKnot(dir, t, r)
}

func (e *entity) removeKnot(dir int, t float64, r int) (int, error) {
	if e.curve != nil {
		return e.curve.RemoveKnot(t, r)
	}
	return e.surface.RemoveKnot(dir, t, r)
}

func (e *entity) elevateDegree(dir, t int) error {
	if e.curve != nil {
		return e.curve.ElevateDegree(t)
	}
	return e.surface.ElevateDegree(dir, t)
}

// split cuts the entity in two at t.
func (e *entity) split(dir int, t float64) (*entity, *entity, error) {
	lo, hi := &entity{format: e.format}, &entity{format: e.format}
	var err error
	if e.curve != nil {
		lo.curve, hi.curve, err = e.curve.Split(t)
	} else {
		lo.surface, hi.surface, err = e.surface.Split(dir, t)
	}
	if err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

func (e *entity) reverse(dir int) error {
	var err error
	if e.curve != nil {
		e.curve, err = e.curve.Reverse()
	} else {
		e.surface, err = e.surface.Reverse(dir)
	}
	return err
}
