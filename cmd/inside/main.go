package main

import "github.com/inside-labs/inside/internal/cli"

func main() {
	cli.Execute()
}
