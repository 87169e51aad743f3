package main

import (
	"github.com/consensys/go-aster/pkg/cmd"
)

func main() {
	cmd.Execute()
}
