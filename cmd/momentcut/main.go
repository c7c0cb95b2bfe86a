package main

import "github.com/clipworks/momentcut/internal/cli"

func main() {
	cli.Main()
}
