// Public domain.

// Package ppprog holds the bulk of the photprep command.
package ppprog

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/exit"
	sexa "github.com/soniakeys/sexagesimal"

	"github.com/phatsurvey/photprep/ast"
	"github.com/phatsurvey/photprep/datamodel"
	"github.com/phatsurvey/photprep/photcat"
	"github.com/phatsurvey/photprep/vega"
)

const versionString = "photprep version 0.1 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()

	// these functions set up from the command line and terminate on error
	cl := parseCommandLine()
	if cl.v {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	cfg := readConfig(cl)
	cfg.Vegafile = readVega(cl, cfg)
	if cl.fnObs != "" {
		cfg.Obsfile = cl.fnObs
	}
	cat, err := photcat.FromConfig(cfg)
	if err != nil {
		exit.Log(err)
	}

	if cl.fnAst != "" {
		genAst(cl, cfg, cat)
		return
	}
	dumpFlux(cl, cfg, cat)
}

// dumpFlux prints one line of absolute fluxes per catalog star.
//
// Rows are converted concurrently.  Per-row result channels queued on a
// buffered channel keep the output in catalog order regardless of which
// worker finishes first.
func dumpFlux(cl *commandLine, cfg datamodel.Config, cat *photcat.FluxCatalog) {
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan string, maxWorkers*2)
	rowCh := make(chan rowSeq)
	errCh := make(chan error)

	// dispatcher.  for each row, attach a return channel that works like
	// a ticket for picking up the converted line, queue the row for a
	// worker and the ticket for printing.
	go func() {
		for i := 0; i < cat.NStars(); i++ {
			rch := make(chan string, 1)
			rowCh <- rowSeq{i, rch}
			prCh <- rch
		}
		close(rowCh)
		close(prCh)
	}()

	// start workers only as rows call for them; the catalog may be
	// smaller than the core count.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			r, ok := <-rowCh
			if !ok {
				return
			}
			go convert(cat, r, rowCh, errCh)
		}
	}()

	// column headings, delayed until all initialization has succeeded.
	if cl.headings {
		printHeadings(cfg, cat)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for {
		select {
		case err := <-errCh:
			exit.Log(err)
		case rch, ok := <-prCh:
			if !ok {
				return
			}
			select {
			case err := <-errCh:
				exit.Log(err)
			case r := <-rch:
				fmt.Fprintln(w, r)
			}
		}
	}
}

type rowSeq struct {
	i   int
	rch chan string
}

// worker, converts rows to output lines.  the first row will be waiting
// in rowCh; it just runs until the channel closes.
func convert(cat *photcat.FluxCatalog, r rowSeq, rowCh chan rowSeq, errCh chan error) {
	hasPos := cat.HasSkyPos()
	for ok := true; ok; r, ok = <-rowCh {
		flux, err := cat.Flux(r.i)
		if err != nil {
			errCh <- err
			return
		}
		ol := fmt.Sprintf("%7d", r.i)
		if hasPos {
			eq, err := cat.SkyPos(r.i)
			if err != nil {
				errCh <- err
				return
			}
			ol = fmt.Sprintf("%s  %v %v", ol,
				sexa.FmtRA(eq.RA), sexa.FmtAngle(eq.Dec))
		}
		for _, f := range flux {
			if cat.Bad(f) {
				ol += "           *"
			} else {
				ol = fmt.Sprintf("%s %11.4e", ol, f)
			}
		}
		r.rch <- ol
	}
}

func printHeadings(cfg datamodel.Config, cat *photcat.FluxCatalog) {
	fmt.Println(versionString)
	fmt.Println(cat.Desc())
	fmt.Printf("%d stars, distance modulus %.2f, flux in erg/s/cm2/A\n",
		cat.NStars(), cat.DistanceModulus())
	fmt.Printf("%7s", "Star")
	if cat.HasSkyPos() {
		fmt.Printf("  %-12s %-12s", "RA", "Dec")
	}
	for _, b := range cfg.Basefilters {
		fmt.Printf(" %11s", b)
	}
	fmt.Println()
}

// genAst writes an artificial star test input list.
func genAst(cl *commandLine, cfg datamodel.Config, cat *photcat.FluxCatalog) {
	if cl.fnModels == "" {
		exit.Log("AST generation needs a model magnitude table (-m).")
	}
	models := readModels(cl.fnModels, cfg)
	limits, err := ast.MagLimits(cat, len(cfg.Filters), cfg.AST.MagLimit)
	if err != nil {
		exit.Log(err)
	}
	rnd := xrand.New(&xrand.PCGSource{})
	if cl.repeatable {
		rnd.Seed(3)
	} else {
		rnd.Seed(uint64(time.Now().UnixNano()))
	}
	list := ast.Pick(models, limits, cfg.AST, rnd)
	if err = ast.Place(list, cat, cfg.AST, rnd); err != nil {
		exit.Log(err)
	}

	f, err := os.Create(cl.fnAst)
	if err != nil {
		exit.Log(err)
	}
	w := bufio.NewWriter(f)
	for _, s := range list {
		if s.HasPos {
			// fake star record for the photometry code:
			// extension, chip, X, Y, then magnitudes
			fmt.Fprintf(w, "0 1 %.2f %.2f", s.X, s.Y)
		} else {
			fmt.Fprint(w, "0 1")
		}
		for _, m := range s.Mags {
			fmt.Fprintf(w, " %.3f", m)
		}
		fmt.Fprintln(w)
	}
	if err = w.Flush(); err != nil {
		f.Close()
		exit.Log(err)
	}
	if err = f.Close(); err != nil {
		exit.Log(err)
	}
	log.Println(len(list), "artificial stars written to", cl.fnAst)
}

// readModels reads the model magnitude table: a CSV with a logage column
// and one Vega magnitude column per base filter.
func readModels(fn string, cfg datamodel.Config) []ast.Model {
	t, err := photcat.ReadFile(fn)
	if err != nil {
		exit.Log(err)
	}
	models := make([]ast.Model, t.NRows())
	for i := range models {
		age, err := t.Get(i, "logage")
		if err != nil {
			exit.Log(err)
		}
		mags := make([]float64, len(cfg.Basefilters))
		for k, b := range cfg.Basefilters {
			if mags[k], err = t.Get(i, b); err != nil {
				exit.Log(err)
			}
		}
		models[i] = ast.Model{LogAge: age, Mags: mags}
	}
	return models
}

type commandLine struct {
	dc         string // config file
	dg         string // vega reference table
	fnModels   string // model magnitude table
	fnAst      string // AST list output
	fnObs      string // catalog override
	headings   bool
	repeatable bool
	v          bool
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.dg, "g", "", "")
	flag.StringVar(&cl.fnModels, "m", "", "")
	flag.StringVar(&cl.fnAst, "a", "", "")
	flag.BoolVar(&cl.repeatable, "r", false, "")
	noHead := flag.Bool("noheadings", false, "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: photprep [options]            dump absolute fluxes per catalog star
       photprep [options] <obsfile>  use <obsfile> instead of the configured
                                     catalog
       photprep -a <file> -m <file>  generate an artificial star input list
       photprep -h                   display help and quick reference
       photprep -v                   display version and copyright

Options:
       -c <config-file>
       -g <vega-table-file>
       -m <model-magnitude-file>
       -a <ast-output-file>
       -r                            repeatable AST selection
       -noheadings
`)
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		cl.v = true
	case flag.NArg() > 1:
		flag.Usage()
		os.Exit(1)
	}
	cl.fnObs = flag.Arg(0)
	cl.headings = !*noHead
	return &cl
}

func readConfig(cl *commandLine) datamodel.Config {
	if cl.dc == "" {
		return datamodel.Default()
	}
	cfg, err := datamodel.Read(cl.dc)
	if err != nil {
		exit.Log(err)
	}
	return cfg
}

// readVega verifies the reference flux table is readable, fetching a fresh
// copy if not, and returns its file name.
func readVega(cl *commandLine, cfg datamodel.Config) string {
	vfn := cl.dg
	if vfn == "" {
		vfn = cfg.Vegafile
	}
	if vfn == "" {
		vfn = vega.Vfn
	}
	_, readErr := vega.ReadFile(vfn)
	if readErr == nil {
		return vfn
	}
	// that didn't work.  try getting a fresh copy.
	if err := vega.Fetch(vfn); err != nil {
		log.Println(readErr) // show error from read attempt,
		exit.Log(err)        // and error from download attempt
	}
	// retry with downloaded file.  see if this copy works better
	if _, readErr = vega.ReadFile(vfn); readErr != nil {
		exit.Log(readErr)
	}
	return vfn
}

func printHelp() {
	fmt.Println(`
Photprep is the observation side front end of a stellar population
fitting pipeline.  It reads a survey data model configuration and an
observed photometry catalog whose raw columns are Vega normalized flux
rates, and presents per star fluxes in absolute physical units.  It also
generates input lists for the artificial star tests that characterize
photometric noise.

Config file keys (YAML):
   project         obsfile          distance_modulus
   filters         astfile          logt, z
   basefilters     noisefile        avs, rvs, fas
   vegafile        ast.*            oiso, osl, extlaw

For full documentation:
   go doc github.com/phatsurvey/photprep`)
}
