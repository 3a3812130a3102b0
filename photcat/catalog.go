// Public domain.

package photcat

import (
	"errors"
	"math"
	"strings"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"

	"github.com/phatsurvey/photprep/datamodel"
	"github.com/phatsurvey/photprep/vega"
)

// FluxDensity is an absolute spectral flux density in erg/s/cm2/A.
type FluxDensity float64

// BadValue is the threshold below which a physical flux is considered an
// implausible measurement.
const BadValue = 6e-40

// FluxCatalog presents per-star flux measurements in absolute physical
// units, given a catalog whose raw columns are Vega normalized flux rates.
//
// Uncertainties are not represented here; for this pipeline the noise is
// characterized separately through artificial star tests.
type FluxCatalog struct {
	tab      *Table
	dm       float64 // distance modulus, magnitudes
	vfn      string  // reference flux table file
	desc     string
	badValue float64

	// set together by SetFilters, constant between calls
	filters  []string
	vegaFlux []float64
}

// New constructs a flux catalog from a CSV catalog file.
//
// Each filter name is aliased to its rate column in the catalog, and the
// reference flux for the filter set is looked up once, from the table file
// vfn, and cached.  Missing files, missing rate columns and filters absent
// from the reference table are all construction errors.
func New(inputFile string, distanceModulus float64, filters []string, vfn string) (*FluxCatalog, error) {
	tab, err := ReadFile(inputFile)
	if err != nil {
		return nil, err
	}
	c := &FluxCatalog{
		tab:      tab,
		dm:       distanceModulus,
		vfn:      vfn,
		desc:     "GENERIC star: " + inputFile,
		badValue: BadValue,
	}
	if err := c.SetFilters(filters); err != nil {
		return nil, err
	}
	return c, nil
}

// FromConfig constructs a FluxCatalog with the catalog file, distance
// modulus, filters and reference table named by the data model
// configuration.
func FromConfig(cfg datamodel.Config) (*FluxCatalog, error) {
	vfn := cfg.Vegafile
	if vfn == "" {
		vfn = vega.Vfn
	}
	return New(cfg.Obsfile, cfg.DistanceModulus, cfg.Filters, vfn)
}

// RateColumn returns the catalog column holding the raw flux rate for a
// full filter name: the short filter name, lower cased, suffixed _rate.
func RateColumn(filter string) string {
	short := filter
	if x := strings.LastIndexByte(filter, '_'); x >= 0 {
		short = filter[x+1:]
	}
	return strings.ToLower(short) + "_rate"
}

// SetFilters sets the filters and updates the cached reference fluxes used
// for unit conversion.
//
// The reference table is opened, queried for all filters at once, and
// closed before SetFilters returns.  Reading the table is expensive, and
// every Flux call needs the result, so it is done here rather than per
// star.
func (c *FluxCatalog) SetFilters(filters []string) error {
	if len(filters) == 0 {
		return errors.New("photcat: empty filter list")
	}
	// resolve everything before installing anything; a failed call must
	// leave the catalog unchanged
	for _, f := range filters {
		if !c.tab.HasColumn(RateColumn(f)) {
			return UnknownColumn(RateColumn(f))
		}
	}
	vt, err := vega.ReadFile(c.vfn)
	if err != nil {
		return err
	}
	vf, err := vt.Flux(filters)
	if err != nil {
		return err
	}
	for _, f := range filters {
		if err := c.tab.SetAlias(f, RateColumn(f)); err != nil {
			return err
		}
	}
	c.filters = append([]string{}, filters...)
	c.vegaFlux = vf
	return nil
}

// Flux returns the absolute flux of star i through the active filters,
// in filter order, in erg/s/cm2/A.
func (c *FluxCatalog) Flux(i int) ([]float64, error) {
	flux := make([]float64, len(c.filters))
	for k, f := range c.filters {
		r, err := c.tab.Get(i, f)
		if err != nil {
			return nil, err
		}
		flux[k] = r * c.vegaFlux[k]
	}
	return flux, nil
}

// FluxDens is Flux with the unit carried in the element type.
func (c *FluxCatalog) FluxDens(i int) ([]FluxDensity, error) {
	flux, err := c.Flux(i)
	if err != nil {
		return nil, err
	}
	fd := make([]FluxDensity, len(flux))
	for k, f := range flux {
		fd[k] = FluxDensity(f)
	}
	return fd, nil
}

// Rates returns the raw Vega normalized flux rates of star i, unconverted.
func (c *FluxCatalog) Rates(i int) ([]float64, error) {
	rates := make([]float64, len(c.filters))
	for k, f := range c.filters {
		r, err := c.tab.Get(i, f)
		if err != nil {
			return nil, err
		}
		rates[k] = r
	}
	return rates, nil
}

// Bad reports whether a physical flux value falls below the bad value
// threshold.
func (c *FluxCatalog) Bad(v float64) bool {
	return v < c.badValue || math.IsNaN(v)
}

// NStars returns the number of stars in the catalog.
func (c *FluxCatalog) NStars() int { return c.tab.NRows() }

// Filters returns the active filter list.
func (c *FluxCatalog) Filters() []string {
	return append([]string{}, c.filters...)
}

// VegaFlux returns the cached per-filter reference flux vector.
func (c *FluxCatalog) VegaFlux() []float64 {
	return append([]float64{}, c.vegaFlux...)
}

// DistanceModulus returns the distance modulus the catalog was constructed
// with, in magnitudes.
func (c *FluxCatalog) DistanceModulus() float64 { return c.dm }

// Desc describes the catalog source.
func (c *FluxCatalog) Desc() string { return c.desc }

// HasSkyPos reports whether the catalog carries ra and dec columns.
func (c *FluxCatalog) HasSkyPos() bool {
	return c.tab.HasColumn("ra") && c.tab.HasColumn("dec")
}

// SkyPos returns the equatorial coordinates of star i from the catalog ra
// and dec columns, given in degrees.
func (c *FluxCatalog) SkyPos(i int) (coord.Equa, error) {
	ra, err := c.tab.Get(i, "ra")
	if err != nil {
		return coord.Equa{}, err
	}
	dec, err := c.tab.Get(i, "dec")
	if err != nil {
		return coord.Equa{}, err
	}
	return coord.Equa{
		RA:  unit.RAFromDeg(ra),
		Dec: unit.AngleFromDeg(dec),
	}, nil
}

// HasPixelPos reports whether the catalog carries x and y pixel position
// columns.
func (c *FluxCatalog) HasPixelPos() bool {
	return c.tab.HasColumn("x") && c.tab.HasColumn("y")
}

// PixelPos returns the pixel position of star i on the reference image.
func (c *FluxCatalog) PixelPos(i int) (x, y float64, err error) {
	if x, err = c.tab.Get(i, "x"); err != nil {
		return
	}
	y, err = c.tab.Get(i, "y")
	return
}
