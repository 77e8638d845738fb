// Command ringfx runs the ring-buffer effects over WAV files.
//
// Usage:
//
//	ringfx process --in a.wav --out b.wav --effect delay [--preset p.yaml]
//	ringfx wininfo [--frame 1024 --hop 256] [window-name ...]
//
// Set RINGFX_DEBUG=1 to force debug logging.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
