// Command datakit manages a small record registry and runs descriptive
// statistics over numeric samples.
package main

import (
	"os"
)

func main() {
	a := &app{}
	if err := a.execute(newRootCmd(a)); err != nil {
		os.Exit(1)
	}
}
