// Command ncspsolve is §6's CLI: `ncspsolve <problem> [-p <params>]`. It
// reads a problem file and an optional KEY=value parameter file, runs
// preprocessing and the branch-and-prune search, and writes the
// `<base>.sol`/`.sta`/`.log` side-effect files alongside a fixed-schema
// stdout report.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
