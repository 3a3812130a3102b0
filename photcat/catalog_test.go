// Public domain.

package photcat_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/phatsurvey/photprep/datamodel"
	"github.com/phatsurvey/photprep/photcat"
	"github.com/phatsurvey/photprep/vega"
)

const testCatalog = `ra,dec,x,y,f275w_rate,f814w_rate
11.2001,41.8102,102.5,334.1,0.002,0.05
11.2020,41.8150,515.0,721.9,0.0004,0.013
11.2043,41.8077,48.2,1024.0,bad,0.0072
`

const testVega = `HST_WFC3_F275W    2704.50   1.2e-09   0.023
HST_ACS_WFC_F814W 8045.53   3.4e-09   0.024
HST_WFC3_F336W    3355.53   3.3e-09   0.022
`

var testFilters = []string{"HST_WFC3_F275W", "HST_ACS_WFC_F814W"}

func writeCatalog(t *testing.T) (obsFn, vegaFn string) {
	t.Helper()
	dir := t.TempDir()
	obsFn = filepath.Join(dir, "b15_4band.csv")
	if err := os.WriteFile(obsFn, []byte(testCatalog), 0666); err != nil {
		t.Fatal(err)
	}
	vegaFn = filepath.Join(dir, vega.Vfn)
	if err := os.WriteFile(vegaFn, []byte(testVega), 0666); err != nil {
		t.Fatal(err)
	}
	return
}

func TestFlux(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	if c.NStars() != 3 {
		t.Fatal("NStars =", c.NStars())
	}
	flux, err := c.Flux(0)
	if err != nil {
		t.Fatal(err)
	}
	// elementwise product of rate row 0 with the reference vector
	want := []float64{2.4e-12, 1.7e-10}
	if len(flux) != len(testFilters) {
		t.Fatal("flux length", len(flux))
	}
	for k := range flux {
		if math.Abs(flux[k]-want[k]) > 1e-24 {
			t.Fatalf("flux[%d] = %g, want %g", k, flux[k], want[k])
		}
	}
}

func TestFluxUnits(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	flux, err := c.Flux(1)
	if err != nil {
		t.Fatal(err)
	}
	fd, err := c.FluxDens(1)
	if err != nil {
		t.Fatal(err)
	}
	// unit capsule carries the same numbers
	for k := range flux {
		if float64(fd[k]) != flux[k] {
			t.Fatal("typed flux differs from plain flux at", k)
		}
	}
}

func TestFluxRange(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, c.NStars()} {
		_, err := c.Flux(i)
		if err == nil {
			t.Fatal("index", i, "accepted")
		}
		if _, ok := err.(photcat.RangeError); !ok {
			t.Fatalf("index %d: error type %T, want photcat.RangeError", i, err)
		}
	}
}

func TestDeterminism(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c1, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	v1, v2 := c1.VegaFlux(), c2.VegaFlux()
	if len(v1) != len(v2) {
		t.Fatal("reference vector lengths differ")
	}
	for k := range v1 {
		if v1[k] != v2[k] {
			t.Fatal("reference vectors differ at", k)
		}
	}
}

func TestSetFilters(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	// narrow to a single filter without reconstructing the catalog
	if err := c.SetFilters(testFilters[1:]); err != nil {
		t.Fatal(err)
	}
	flux, err := c.Flux(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(flux) != 1 {
		t.Fatal("flux length after SetFilters =", len(flux))
	}
	if math.Abs(flux[0]-1.7e-10) > 1e-22 {
		t.Fatal("flux after SetFilters =", flux[0])
	}
	// a filter in the reference table but without a rate column
	if err := c.SetFilters([]string{"HST_WFC3_F336W"}); err == nil {
		t.Fatal("filter without a catalog column accepted")
	}
	// a filter with a rate column but missing from the reference table
	err = c.SetFilters([]string{"HST_WFC3_F814W"})
	if err == nil {
		t.Fatal("filter without reference flux accepted")
	}
	if _, ok := err.(vega.UnknownFilter); !ok {
		t.Fatalf("error type %T, want vega.UnknownFilter", err)
	}
	if err := c.SetFilters(nil); err == nil {
		t.Fatal("empty filter list accepted")
	}
}

func TestBadValue(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	flux, err := c.Flux(2)
	if err != nil {
		t.Fatal(err)
	}
	// the unparsable f275w cell comes through as NaN and flags bad
	if !c.Bad(flux[0]) {
		t.Fatal("NaN flux not flagged bad")
	}
	if c.Bad(flux[1]) {
		t.Fatal("valid flux flagged bad")
	}
	if !c.Bad(1e-42) {
		t.Fatal("flux below sentinel not flagged bad")
	}
}

func TestPositions(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	c, err := photcat.New(obsFn, 24.47, testFilters, vegaFn)
	if err != nil {
		t.Fatal(err)
	}
	if !c.HasSkyPos() || !c.HasPixelPos() {
		t.Fatal("position columns not detected")
	}
	eq, err := c.SkyPos(0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(eq.RA.Deg()-11.2001) > 1e-9 ||
		math.Abs(eq.Dec.Deg()-41.8102) > 1e-9 {
		t.Fatal("sky position", eq.RA.Deg(), eq.Dec.Deg())
	}
	x, y, err := c.PixelPos(1)
	if err != nil {
		t.Fatal(err)
	}
	if x != 515 || y != 721.9 {
		t.Fatal("pixel position", x, y)
	}
}

func TestFromConfig(t *testing.T) {
	obsFn, vegaFn := writeCatalog(t)
	cfg := datamodel.Default()
	cfg.Obsfile = obsFn
	cfg.Vegafile = vegaFn
	cfg.Filters = testFilters
	cfg.Basefilters = []string{"F275W", "F814W"}
	c, err := photcat.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.DistanceModulus() != cfg.DistanceModulus {
		t.Fatal("distance modulus", c.DistanceModulus())
	}
	got := c.Filters()
	for k, f := range testFilters {
		if got[k] != f {
			t.Fatal("filters", got)
		}
	}
}

func TestRateColumn(t *testing.T) {
	cases := []struct{ filter, col string }{
		{"HST_WFC3_F275W", "f275w_rate"},
		{"HST_ACS_WFC_F814W", "f814w_rate"},
		{"F475W", "f475w_rate"},
	}
	for _, c := range cases {
		if got := photcat.RateColumn(c.filter); got != c.col {
			t.Fatalf("RateColumn(%s) = %s, want %s", c.filter, got, c.col)
		}
	}
}
