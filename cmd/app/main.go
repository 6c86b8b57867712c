package main

import (
	"pickingpacking/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		log.Fatalf("pickingpacking: %v", err)
	}
}
