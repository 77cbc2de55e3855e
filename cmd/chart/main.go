// Command chart renders a stock chart summary from the terminal and manages
// the chart cache and watchlist.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
