// Public domain.

// Package photcat provides access to observed photometry catalogs.
//
// A catalog is a flat table with one row per measured star.  Raw flux
// columns are rates normalized to Vega; FluxCatalog converts them to
// absolute physical flux using the reference table of package vega.
package photcat

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
)

// RangeError is the error returned for a row index outside the catalog.
type RangeError struct {
	Index, Rows int
}

func (e RangeError) Error() string {
	return "row " + strconv.Itoa(e.Index) +
		" out of range, catalog has " + strconv.Itoa(e.Rows) + " rows"
}

// UnknownColumn is the error returned when a column name, after alias
// resolution, is not present in the catalog.
type UnknownColumn string

func (c UnknownColumn) Error() string {
	return "column " + string(c) + " not in catalog"
}

// Table is a tabular photometry catalog, columns addressable by name or
// by alias.  Column names are matched without regard to case.
type Table struct {
	cols  map[string]int    // lower cased column name to cell index
	alias map[string]string // alias to column name
	rows  [][]float64
}

// ReadFile reads a CSV catalog file.
//
// The first record names the columns.  Cells that do not parse as numbers
// are stored as NaN.
func ReadFile(fn string) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("no header record in " + fn)
	}
	t := &Table{
		cols:  make(map[string]int),
		alias: make(map[string]string),
		rows:  make([][]float64, 0, len(recs)-1),
	}
	for i, name := range recs[0] {
		t.cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, rec := range recs[1:] {
		row := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				v = math.NaN()
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// NRows returns the number of stars in the catalog.
func (t *Table) NRows() int { return len(t.rows) }

// HasColumn reports whether name, after alias resolution, is a catalog
// column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[strings.ToLower(t.ResolveAlias(name))]
	return ok
}

// SetAlias maps name onto catalog column col.  The column must exist.
func (t *Table) SetAlias(name, col string) error {
	if _, ok := t.cols[strings.ToLower(col)]; !ok {
		return UnknownColumn(col)
	}
	t.alias[name] = col
	return nil
}

// ResolveAlias returns the column name that name is aliased to, or name
// itself if it carries no alias.
func (t *Table) ResolveAlias(name string) string {
	if col, ok := t.alias[name]; ok {
		return col
	}
	return name
}

// Get returns the cell at row i of the named column.  The name may be an
// alias.
func (t *Table) Get(i int, name string) (float64, error) {
	if i < 0 || i >= len(t.rows) {
		return 0, RangeError{i, len(t.rows)}
	}
	cx, ok := t.cols[strings.ToLower(t.ResolveAlias(name))]
	if !ok || cx >= len(t.rows[i]) {
		return 0, UnknownColumn(name)
	}
	return t.rows[i][cx], nil
}
