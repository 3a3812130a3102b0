// Public domain.

// Package vega reads the reference-star flux table.
//
// Raw catalog measurements are flux rates normalized to Vega.  Converting
// them to absolute physical flux requires the flux of Vega itself through
// each filter.  That per-filter reference flux is tabulated once, in a flat
// file, by integrating the Kurucz Vega spectrum through the filter
// transmission curves; this package reads the table and answers batched
// lookups for a filter set.
package vega

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Vfn is the default file name of the reference flux table.
const Vfn = "vega.dat"

// TableURL links to the reference table distributed with the pipeline.
// The file is regenerated whenever filter throughput curves are revised,
// so a fetched copy can differ from an old local one.
var TableURL = "https://phatsurvey.github.io/photprep/vega.dat"

// Entry holds the tabulated reference values for one filter.
type Entry struct {
	Wavelength float64 // filter effective wavelength, Angstroms
	Flux       float64 // Vega flux, erg/s/cm2/A
	Mag        float64 // Vega magnitude
}

// Table maps full filter names to reference entries.
type Table map[string]Entry

// UnknownFilter is the error returned for a lookup of a filter name not
// present in the reference table.
type UnknownFilter string

func (f UnknownFilter) Error() string {
	return "filter " + string(f) + " not in reference flux table"
}

// Fetch gets a fresh copy of the data at TableURL and writes it to a new
// file with the path and file name vfn.
func Fetch(vfn string) error {
	r, err := http.Get(TableURL)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return errors.New("fetching " + TableURL + ": " + r.Status)
	}
	f, err := os.Create(vfn)
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, r.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a reference flux table.
//
// Data lines have four whitespace separated fields: filter name, effective
// wavelength in Angstroms, flux in erg/s/cm2/A, and Vega magnitude.  Lines
// that do not parse as data, such as column headings or comments, are
// quietly ignored.
//
// The file is opened, parsed, and closed within the call.
func ReadFile(vfn string) (Table, error) {
	f, err := os.Open(vfn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := make(Table)
	for s := bufio.NewScanner(f); s.Scan(); {
		fields := strings.Fields(s.Text())
		if len(fields) < 4 {
			continue
		}
		w, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		fl, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || fl <= 0 {
			continue
		}
		m, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		t[fields[0]] = Entry{Wavelength: w, Flux: fl, Mag: m}
	}
	if len(t) == 0 {
		return nil, errors.New("no reference flux data in " + vfn)
	}
	return t, nil
}

func (t Table) lookup(filters []string, v func(Entry) float64) ([]float64, error) {
	r := make([]float64, len(filters))
	for i, f := range filters {
		e, ok := t[f]
		if !ok {
			return nil, UnknownFilter(f)
		}
		r[i] = v(e)
	}
	return r, nil
}

// Flux returns reference fluxes for a set of filters, in filter order,
// in erg/s/cm2/A.
func (t Table) Flux(filters []string) ([]float64, error) {
	return t.lookup(filters, func(e Entry) float64 { return e.Flux })
}

// Mag returns reference Vega magnitudes for a set of filters.
func (t Table) Mag(filters []string) ([]float64, error) {
	return t.lookup(filters, func(e Entry) float64 { return e.Mag })
}

// Wavelength returns filter effective wavelengths in Angstroms.
func (t Table) Wavelength(filters []string) ([]float64, error) {
	return t.lookup(filters, func(e Entry) float64 { return e.Wavelength })
}
