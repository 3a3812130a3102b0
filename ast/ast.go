// Public domain.

// Package ast generates input lists for artificial star tests.
//
// Artificial stars are synthetic sources injected into the survey imaging
// and remeasured to characterize completeness and photometric noise.  The
// list to inject is drawn from the model grid: a number of models per age
// bin, bright enough in enough bands to be recoverable, each repeated for
// several realizations and optionally assigned a pixel position near a
// real catalog star.
package ast

import (
	"errors"
	"math"
	"sort"

	xrand "golang.org/x/exp/rand"

	"github.com/phatsurvey/photprep/datamodel"
)

// Source is the catalog access needed for artificial star selection and
// placement.  *photcat.FluxCatalog implements it.
type Source interface {
	NStars() int
	Rates(i int) ([]float64, error)
	HasPixelPos() bool
	PixelPos(i int) (x, y float64, err error)
}

// Model is one model grid entry: an age and its magnitudes through the
// active filters, in filter order.
type Model struct {
	LogAge float64
	Mags   []float64
}

// Star is one artificial star to inject.
type Star struct {
	Mags   []float64
	X, Y   float64
	HasPos bool
}

// MagLimits resolves the configured magnitude limit spec against a
// catalog.
//
// With one spec value, the limit in each band is that many magnitudes
// fainter than the 90th percentile faintest star measured in the band.
// With one value per band, the values are the limits themselves.  Raw
// rates are Vega normalized, so the percentile is computed on Vega
// magnitudes -2.5 log10(rate).
func MagLimits(src Source, nbands int, spec []float64) ([]float64, error) {
	if len(spec) == nbands && nbands > 1 {
		return append([]float64{}, spec...), nil
	}
	if len(spec) != 1 {
		return nil, errors.New("ast: maglimit needs 1 value or 1 per band")
	}
	mags := make([][]float64, nbands)
	for i := 0; i < src.NStars(); i++ {
		r, err := src.Rates(i)
		if err != nil {
			return nil, err
		}
		if len(r) != nbands {
			return nil, errors.New("ast: rate vector length mismatch")
		}
		for k, rate := range r {
			if rate > 0 {
				mags[k] = append(mags[k], -2.5*math.Log10(rate))
			}
		}
	}
	limits := make([]float64, nbands)
	for k, m := range mags {
		if len(m) == 0 {
			return nil, errors.New("ast: no valid measurements in band")
		}
		sort.Float64s(m)
		// 90th percentile of the magnitude distribution, faint end
		limits[k] = m[int(math.Round(.9*float64(len(m)-1)))] + spec[0]
	}
	return limits, nil
}

// Pick selects artificial star models.
//
// Models are grouped by age.  Within each age, models with at least
// p.BandsAboveMagLimit bands brighter than the corresponding limit are
// candidates; up to p.ModelsPerAge of them are chosen at random, and each
// chosen model is repeated p.RealizationsPerModel times in the output.
// The output is deterministic for a given seed of rnd.
func Pick(models []Model, limits []float64, p datamodel.ASTParams, rnd *xrand.Rand) []Star {
	byAge := make(map[float64][]Model)
	for _, m := range models {
		byAge[m.LogAge] = append(byAge[m.LogAge], m)
	}
	ages := make([]float64, 0, len(byAge))
	for a := range byAge {
		ages = append(ages, a)
	}
	sort.Float64s(ages)

	var list []Star
	for _, a := range ages {
		var cand []Model
		for _, m := range byAge[a] {
			if recoverable(m.Mags, limits, p.BandsAboveMagLimit) {
				cand = append(cand, m)
			}
		}
		n := p.ModelsPerAge
		if n > len(cand) {
			n = len(cand)
		}
		for _, cx := range rnd.Perm(len(cand))[:n] {
			for r := 0; r < p.RealizationsPerModel; r++ {
				list = append(list, Star{Mags: cand[cx].Mags})
			}
		}
	}
	return list
}

// recoverable reports whether at least nbands magnitudes are brighter
// than their limits.
func recoverable(mags, limits []float64, nbands int) bool {
	n := 0
	for k, m := range mags {
		if k < len(limits) && m <= limits[k] {
			n++
		}
	}
	return n >= nbands
}

// Place assigns pixel positions to an artificial star list.
//
// Each star is anchored to a randomly chosen catalog star and offset by at
// least p.PixelDistribution pixels, uniformly in the annulus between one
// and two separations.  If the catalog has no position columns the
// configured reference image must be present; positions are then left for
// the photometry code to draw from the image.
func Place(list []Star, src Source, p datamodel.ASTParams, rnd *xrand.Rand) error {
	if !p.WithPositions {
		return nil
	}
	if !src.HasPixelPos() {
		if p.ReferenceImage == "" {
			return errors.New(
				"ast: positions requested but catalog has no X,Y and no reference image is configured")
		}
		return nil
	}
	if src.NStars() == 0 {
		return errors.New("ast: empty catalog")
	}
	for i := range list {
		x, y, err := src.PixelPos(rnd.Intn(src.NStars()))
		if err != nil {
			return err
		}
		r := p.PixelDistribution * (1 + rnd.Float64())
		th := 2 * math.Pi * rnd.Float64()
		list[i].X = x + r*math.Cos(th)
		list[i].Y = y + r*math.Sin(th)
		list[i].HasPos = true
	}
	return nil
}
