package main

import "github.com/pfrederiksen/league-stats/internal/cli"

func main() {
	cli.Execute()
}
