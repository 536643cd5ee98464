package main

import (
	"os"

	"github.com/shpaw415/frame-master-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
