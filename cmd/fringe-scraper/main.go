package main

import "github.com/pfrederiksen/fringe-events/internal/cli"

func main() {
	cli.Execute()
}
