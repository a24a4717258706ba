package main

import "github.com/datadeck-dev/datadeck/internal/cli"

func main() {
	cli.Execute()
}
