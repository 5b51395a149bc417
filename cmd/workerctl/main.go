package main

import (
	"os"

	"github.com/spec-kit/worker-directory/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.StdStreams(), os.Args[1:]))
}
