// Command zbewalgo compresses files page by page with the adaptive engine
// and compares it against general-purpose codecs.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
