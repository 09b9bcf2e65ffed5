package main

import (
	"fmt"
	"os"

	"github.com/rohan-g0re/stratdeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
