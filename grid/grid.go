// Public domain.

// Package grid defines the stellar and dust parameter space sampled by the
// model grid stages of the pipeline.
//
// The space has five dimensions: log10 age, initial metallicity Z, dust
// column A(V), average grain size R(V), and the mixture factor fA between
// the MW and SMCBar extinction curves.  Age and the three dust dimensions
// are sampled on regular sequences; metallicity is an explicit list because
// the isochrone sets are not uniformly spaced in Z.
package grid

import (
	"errors"
	"math"
)

// Seq specifies a regular sampling of one grid dimension.
//
// Points are Min, Min+Step, ... up to but not including Max, matching the
// half-open convention of the grid tools downstream.
type Seq struct {
	Min, Max, Step float64
}

// N returns the number of points in the sequence.
func (s Seq) N() int {
	if s.Step <= 0 || s.Max <= s.Min {
		return 0
	}
	return int(math.Ceil((s.Max-s.Min)/s.Step - 1e-9))
}

// Points expands the sequence.
func (s Seq) Points() []float64 {
	n := s.N()
	p := make([]float64, n)
	for i := range p {
		p[i] = s.Min + float64(i)*s.Step
	}
	return p
}

// Valid returns an error describing the first problem found with the
// sequence, or nil.
func (s Seq) Valid() error {
	switch {
	case s.Step <= 0:
		return errors.New("grid: step must be > 0")
	case s.Max <= s.Min:
		return errors.New("grid: max must be > min")
	}
	return nil
}

// Space holds the partitions in all five dimensions.  Values are constant
// after being set from the data model configuration.
type Space struct {
	LogT Seq       // log10 age in years
	Z    []float64 // initial metallicity
	AV   Seq       // dust column, magnitudes
	RV   Seq       // average grain size
	FA   Seq       // MW/SMCBar mixture factor
}

// Size returns the number of cells in the flat representation of the space.
func (sp *Space) Size() int {
	return sp.LogT.N() * len(sp.Z) * sp.AV.N() * sp.RV.N() * sp.FA.N()
}

// Mx computes an index into the flat representation of the space.
func (sp *Space) Mx(tx, zx, ax, rx, fx int) int {
	return (((tx*len(sp.Z)+zx)*sp.AV.N()+ax)*sp.RV.N()+rx)*sp.FA.N() + fx
}

// At inverts Mx, recovering the per-dimension indexes of a flat index.
func (sp *Space) At(mx int) (tx, zx, ax, rx, fx int) {
	fx = mx % sp.FA.N()
	mx /= sp.FA.N()
	rx = mx % sp.RV.N()
	mx /= sp.RV.N()
	ax = mx % sp.AV.N()
	mx /= sp.AV.N()
	zx = mx % len(sp.Z)
	tx = mx / len(sp.Z)
	return
}
