// Package main is the entry point for the pigskin pipeline.
package main

import (
	"github.com/gridironlab/pigskin/cmd"
)

func main() {
	cmd.Execute()
}
