// Public domain.

// Package datamodel defines the survey configuration consumed by the
// model generation and fitting stages of the pipeline.
//
// A Config is an explicit value, read once and passed to the stages that
// need it.  Nothing is derived at load time; quantities computed from the
// configuration, such as the calibration covariance matrix or the expanded
// parameter grid, are obtained by explicit calls.
package datamodel

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phatsurvey/photprep/grid"
)

// ASTParams control generation of the artificial star test input list.
type ASTParams struct {
	// number of models to pick per age
	ModelsPerAge int `yaml:"models_per_age"`

	// number of filters that must be above the magnitude limit for a
	// model to be included in the list
	BandsAboveMagLimit int `yaml:"bands_above_maglimit"`

	// number of realizations of each included model
	RealizationsPerModel int `yaml:"realizations_per_model"`

	// one value: magnitudes fainter than the 90th percentile faintest
	// catalog star.  One value per filter: explicit faint end limits.
	MagLimit []float64 `yaml:"maglimit"`

	// produce the list with X,Y positions
	WithPositions bool `yaml:"with_positions"`

	// minimum pixel separation between an artificial star and the
	// catalog star anchoring its position
	PixelDistribution float64 `yaml:"pixel_distribution"`

	// reference image used by the photometry code.  Required when
	// WithPositions is set and the catalog has no position columns.
	ReferenceImage string `yaml:"reference_image"`
}

// Config is the survey data model.  Treat values as immutable once read;
// stages receive the Config by value.
type Config struct {
	// name of the output results directory
	Project string `yaml:"project"`

	// full filter names in the reference filter database
	Filters []string `yaml:"filters"`

	// short names for filters, in Filters order
	Basefilters []string `yaml:"basefilters"`

	// observed photometry catalog.  Rate columns must be fluxes
	// normalized to Vega, not magnitudes.
	Obsfile string `yaml:"obsfile"`

	// artificial star test results, input to the noise model
	Astfile string `yaml:"astfile"`

	// noise model output.  Defaults to
	// <project>/<project>_noisemodel.hd5.
	Noisefile string `yaml:"noisefile"`

	// reference flux table location
	Vegafile string `yaml:"vegafile"`

	AST ASTParams `yaml:"ast"`

	// distance modulus to the target population, magnitudes
	DistanceModulus float64 `yaml:"distance_modulus"`

	// log10 age sequence in years, [min, max, step]
	Logt [3]float64 `yaml:"logt"`

	// initial metallicities.  An explicit list; isochrone sets are not
	// uniformly spaced in Z.
	Z []float64 `yaml:"z"`

	// dust grid triples, [min, max, step]
	Avs [3]float64 `yaml:"avs"` // A(V), dust column in magnitudes
	Rvs [3]float64 `yaml:"rvs"` // R(V), average grain size
	Fas [3]float64 `yaml:"fas"` // fA, MW/SMCBar mixture factor

	// isochrone model grid choice, e.g. padova, mist
	Oiso string `yaml:"oiso"`

	// stellar atmosphere libraries, applied in order
	Osl []string `yaml:"osl"`

	// dust extinction law
	ExtLaw string `yaml:"extlaw"`
}

// Default returns the example configuration for the M31 survey fields.
func Default() Config {
	return Config{
		Project: "beast_example_phat",
		Filters: []string{
			"HST_WFC3_F275W", "HST_WFC3_F336W", "HST_ACS_WFC_F475W",
			"HST_ACS_WFC_F814W", "HST_WFC3_F110W", "HST_WFC3_F160W",
		},
		Basefilters: []string{
			"F275W", "F336W", "F475W", "F814W", "F110W", "F160W",
		},
		Obsfile:  "data/b15_4band_det_27_A.csv",
		Astfile:  "data/fake_stars_b15_27_all.csv",
		Vegafile: "vega.dat",
		AST: ASTParams{
			ModelsPerAge:         70,
			BandsAboveMagLimit:   3,
			RealizationsPerModel: 20,
			MagLimit:             []float64{1},
			WithPositions:        true,
			PixelDistribution:    10,
		},
		DistanceModulus: 24.47,
		Logt:            [3]float64{6, 10.13, 1},
		Z:               []float64{.03, .019, .008, .004},
		Avs:             [3]float64{0, 10.055, 1},
		Rvs:             [3]float64{2, 6, 1},
		Fas:             [3]float64{0, 1, .25},
		Oiso:            "padova",
		Osl:             []string{"tlusty", "kurucz"},
		ExtLaw:          "gordon16_rvfa",
	}
}

// Read reads a YAML configuration file over the defaults and validates
// the result.
func Read(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// ObsColnames returns the catalog column names holding the raw flux rates,
// in filter order.
func (c Config) ObsColnames() []string {
	cols := make([]string, len(c.Basefilters))
	for i, f := range c.Basefilters {
		cols[i] = strings.ToLower(f) + "_rate"
	}
	return cols
}

// NoisefileOrDefault returns the configured noise model path, or the
// conventional path under the project directory.
func (c Config) NoisefileOrDefault() string {
	if c.Noisefile != "" {
		return c.Noisefile
	}
	return c.Project + "/" + c.Project + "_noisemodel.hd5"
}

// Grid returns the model parameter space declared by the configuration.
func (c Config) Grid() grid.Space {
	return grid.Space{
		LogT: seq(c.Logt),
		Z:    c.Z,
		AV:   seq(c.Avs),
		RV:   seq(c.Rvs),
		FA:   seq(c.Fas),
	}
}

func seq(t [3]float64) grid.Seq {
	return grid.Seq{Min: t[0], Max: t[1], Step: t[2]}
}

// Distance converts the distance modulus to a distance in parsecs.
func (c Config) Distance() float64 {
	return math.Pow(10, 1+c.DistanceModulus/5)
}

// Validate returns an error describing the first problem found with the
// configuration, or nil.
func (c Config) Validate() error {
	switch {
	case c.Project == "":
		return errors.New("datamodel: project name required")
	case len(c.Filters) == 0:
		return errors.New("datamodel: filter list required")
	case len(c.Basefilters) != len(c.Filters):
		return errors.New("datamodel: basefilters must match filters")
	case c.Obsfile == "":
		return errors.New("datamodel: obsfile required")
	}
	a := c.AST
	switch {
	case a.ModelsPerAge < 1:
		return errors.New("datamodel: ast models_per_age must be positive")
	case a.BandsAboveMagLimit < 0 || a.BandsAboveMagLimit > len(c.Filters):
		return fmt.Errorf("datamodel: ast bands_above_maglimit must be 0..%d",
			len(c.Filters))
	case a.RealizationsPerModel < 1:
		return errors.New("datamodel: ast realizations_per_model must be positive")
	case len(a.MagLimit) != 1 && len(a.MagLimit) != len(c.Filters):
		return fmt.Errorf("datamodel: ast maglimit needs 1 or %d values",
			len(c.Filters))
	case a.WithPositions && a.PixelDistribution <= 0:
		return errors.New("datamodel: ast pixel_distribution must be positive")
	}
	for _, s := range []grid.Seq{seq(c.Logt), seq(c.Avs), seq(c.Rvs), seq(c.Fas)} {
		if err := s.Valid(); err != nil {
			return err
		}
	}
	if len(c.Z) == 0 {
		return errors.New("datamodel: metallicity list required")
	}
	for _, z := range c.Z {
		// acceptance range of the isochrone sets
		if z <= 1e-4 || z >= .06 {
			return fmt.Errorf("datamodel: metallicity %g outside (1e-4, 0.06)", z)
		}
	}
	return nil
}
