// Package main is the entrypoint for the modelproxy CLI.
package main

import (
	"github.com/leapstack-labs/modelproxy/internal/cli"
)

func main() {
	cli.Execute()
}
