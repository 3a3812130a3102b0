// Public domain.

// Package absflux computes the fractional absolute flux calibration
// covariance for a set of survey filters.
//
// Photometric calibration errors are not independent between bands: all
// filters on one camera share the calibration of that camera.  The fitting
// stage folds this covariance into its likelihood, so the matrix is
// computed here once per filter set, on request, never as a load time side
// effect.
package absflux

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// UnknownFilter is the error returned for a filter name that cannot be
// mapped to a camera.
type UnknownFilter string

func (f UnknownFilter) Error() string {
	return "filter " + string(f) + " not a recognized camera filter"
}

// Fractional calibration uncertainty per camera.
const (
	acsWFCFrac   = .01
	wfc3UVISFrac = .015
	wfc3IRFrac   = .02
)

// camera identifies the camera serving a full filter name such as
// HST_WFC3_F275W.  WFC3 filter numbers below 200 are on the IR channel.
func camera(filter string) (string, float64, error) {
	tok := strings.Split(filter, "_")
	if len(tok) < 3 || tok[0] != "HST" {
		return "", 0, UnknownFilter(filter)
	}
	band := tok[len(tok)-1]
	if len(band) < 4 || band[0] != 'F' {
		return "", 0, UnknownFilter(filter)
	}
	n, err := strconv.Atoi(band[1:4])
	if err != nil {
		return "", 0, UnknownFilter(filter)
	}
	switch tok[1] {
	case "ACS":
		return "ACS_WFC", acsWFCFrac, nil
	case "WFC3":
		if n < 200 {
			return "WFC3_IR", wfc3IRFrac, nil
		}
		return "WFC3_UVIS", wfc3UVISFrac, nil
	}
	return "", 0, UnknownFilter(filter)
}

// HSTFracMatrix returns the fractional absolute flux calibration
// covariance matrix for a filter set, in filter order.
func HSTFracMatrix(filters []string) (*mat.SymDense, error) {
	cam := make([]string, len(filters))
	sig := make([]float64, len(filters))
	for i, f := range filters {
		c, s, err := camera(f)
		if err != nil {
			return nil, err
		}
		cam[i], sig[i] = c, s
	}
	// filters on one camera share its calibration fully; cameras are
	// calibrated independently, so cross camera entries stay zero
	m := mat.NewSymDense(len(filters), nil)
	for i := range filters {
		for j := i; j < len(filters); j++ {
			if cam[i] == cam[j] {
				m.SetSym(i, j, sig[i]*sig[j])
			}
		}
	}
	return m, nil
}
