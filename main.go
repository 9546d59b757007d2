package main

import (
	"os"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
