// Command match-preview ranks and scores profiles from a JSON fixture without
// a broker or database, for tuning weights and checking reasons.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
