package main

import "github.com/peekproxy/peek/internal/cli"

func main() {
	cli.Execute()
}
