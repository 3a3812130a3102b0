// Public domain.

package photcat_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/phatsurvey/photprep/photcat"
)

func writeTable(t *testing.T) *photcat.Table {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "cat.csv")
	data := "RA,Dec,f475w_rate\n10.5,41.2,0.031\n10.6,41.3,n/a\n"
	if err := os.WriteFile(fn, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	tab, err := photcat.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestTable(t *testing.T) {
	tab := writeTable(t)
	if tab.NRows() != 2 {
		t.Fatal("NRows =", tab.NRows())
	}
	// column names are case insensitive
	v, err := tab.Get(0, "ra")
	if err != nil {
		t.Fatal(err)
	}
	if v != 10.5 {
		t.Fatal("ra =", v)
	}
	// unparsable cells read as NaN
	v, err = tab.Get(1, "f475w_rate")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(v) {
		t.Fatal("n/a cell =", v)
	}
}

func TestAlias(t *testing.T) {
	tab := writeTable(t)
	if err := tab.SetAlias("HST_ACS_WFC_F475W", "f475w_rate"); err != nil {
		t.Fatal(err)
	}
	if col := tab.ResolveAlias("HST_ACS_WFC_F475W"); col != "f475w_rate" {
		t.Fatal("resolved to", col)
	}
	// unaliased names resolve to themselves
	if col := tab.ResolveAlias("dec"); col != "dec" {
		t.Fatal("resolved to", col)
	}
	v, err := tab.Get(0, "HST_ACS_WFC_F475W")
	if err != nil {
		t.Fatal(err)
	}
	if v != .031 {
		t.Fatal("aliased get =", v)
	}
	// alias must name an existing column
	err = tab.SetAlias("HST_WFC3_F336W", "f336w_rate")
	if err == nil {
		t.Fatal("alias to missing column accepted")
	}
	if _, ok := err.(photcat.UnknownColumn); !ok {
		t.Fatalf("error type %T, want photcat.UnknownColumn", err)
	}
}

func TestTableErrors(t *testing.T) {
	tab := writeTable(t)
	if _, err := tab.Get(2, "ra"); err == nil {
		t.Fatal("out of range row accepted")
	}
	_, err := tab.Get(0, "f814w_rate")
	if err == nil {
		t.Fatal("missing column accepted")
	}
	if _, ok := err.(photcat.UnknownColumn); !ok {
		t.Fatalf("error type %T, want photcat.UnknownColumn", err)
	}
}
