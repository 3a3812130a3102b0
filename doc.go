/*
Command photprep prepares observed photometry for a stellar population
fitting pipeline.

Program overview

The pipeline fits resolved star photometry against a grid of stellar
models reddened by dust.  Photprep covers the observation side: it holds
the survey data model (filters, catalog locations, distance modulus,
stellar and dust grid declarations, artificial star test parameters),
gives per star access to measured fluxes in absolute physical units, and
generates the input lists for artificial star tests.

Raw catalog columns are flux rates normalized to Vega.  Converting a rate
to erg/s/cm2/A multiplies it by the flux of Vega through the same filter,
read once per filter set from the reference table vega.dat.

Sample run:

	photprep -c phat.yaml

prints one line per catalog star with its index, sky position if the
catalog carries one, and the absolute flux through each configured
filter.  Implausibly small fluxes print as *.

	photprep -c phat.yaml -m seds.csv -a fake_stars.lst -r

selects artificial star models from the magnitude table seds.csv, places
them near catalog stars, and writes the list for the photometry code.
The -r option makes the random selection repeatable.

Command line usage

	photprep [options]            dump the configured catalog
	photprep [options] <obsfile>  dump a different catalog file
	photprep -h                   display help and quick reference
	photprep -v                   display version and copyright

	Options:
	-c <config-file>
	-g <vega-table-file>
	-m <model-magnitude-file>
	-a <ast-output-file>
	-r
	-noheadings

File formats

The configuration file is YAML; keys and defaults are documented in
package datamodel.  The photometry catalog and the model magnitude table
are CSV with a header record; rate columns are named for the short filter
name, lower cased, suffixed _rate.  The Vega reference table is a flat
file of filter name, effective wavelength, flux, and magnitude, read by
package vega and installed by the command mkvega.

-------------
Public domain.
*/
package main
