/*
Command mkvega installs the local Vega reference flux table.

The table, vega.dat, holds the flux of the reference standard star
through every filter in the survey filter database.  It is distributed
with the pipeline and regenerated when filter throughput curves are
revised, so mkvega simply downloads the current copy and verifies it
reads back.

Usage:

	mkvega                  install vega.dat in the current directory
	mkvega -o <file>        specify output path or file name
	mkvega -u <url>         fetch from a different location
	mkvega -v               display version and copyright

-------------
Public domain.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/soniakeys/exit"

	"github.com/phatsurvey/photprep/vega"
)

const versionString = "mkvega version 0.1"
const copyrightString = "Public domain."

func main() {
	defer exit.Handler()

	out := flag.String("o", vega.Vfn, "output path or file name")
	url := flag.String("u", vega.TableURL, "table url")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
  mkvega            Install ` + vega.Vfn + ` in the current directory.
  mkvega -o <file>  Specify output path or file name.
  mkvega -u <url>   Fetch from a different location.
  mkvega -v         Display version and copyright.
`)
	}
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		return
	}

	vega.TableURL = *url
	if err := vega.Fetch(*out); err != nil {
		exit.Log(err)
	}
	// see that the fetched copy reads back
	t, err := vega.ReadFile(*out)
	if err != nil {
		exit.Log(err)
	}
	fmt.Println(*out, "installed,", len(t), "filters.")
}
