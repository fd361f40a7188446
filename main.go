package main

import (
	"os"

	"github.com/pkamble/lessonchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
