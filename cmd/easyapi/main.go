package main

import (
	"os"

	"github.com/probablyarth/easyapi-go/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
