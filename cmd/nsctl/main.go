package main

import "github.com/mcoot/nightshift/internal/cli"

func main() {
	cli.Execute()
}
