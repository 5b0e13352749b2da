package main

import (
	"os"

	"github.com/paul-ww/ocmf-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
