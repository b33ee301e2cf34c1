package main

import (
	"github.com/cfdlabs/gofluid/cmd"
)

func main() {
	cmd.Execute()
}
