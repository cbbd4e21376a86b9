// Command motion-engine simulates, validates, plays and watches keyframe
// motions. `motion-engine run` reads a SimulationInput from a file argument
// (or stdin) and writes the SimulationLog JSON to stdout.
package main

import (
	"os"

	"github.com/cxd309/motion-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
