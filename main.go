// Public domain.

package main

import "github.com/phatsurvey/photprep/internal/ppprog"

func main() {
	ppprog.Main()
}
