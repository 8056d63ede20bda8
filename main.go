package main

import (
	"log"

	"github.com/hubscout/hubscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
