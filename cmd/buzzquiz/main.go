package main

import (
	"github.com/akehlen/buzzquiz/internal/cli"
)

func main() {
	cli.Execute()
}
