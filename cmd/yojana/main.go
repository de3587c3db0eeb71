// Yojana recommends Indian government welfare schemes for a villager's
// profile and reads them aloud in Gujarati, Hindi or English.
//
// Usage:
//
//	yojana [--lang gu|hi|en] [--verbose] [--quiet] [--no-speech]
//	yojana recommend --age 45 --gender Male --income 50000 ...
//	yojana speak --text "..." --out scheme.wav
//	yojana decode audio.b64 --out audio.wav
//	yojana prompt --age 45 ...
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
