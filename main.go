package main

import "github.com/dotcommander/aquarank/cmd"

func main() {
	cmd.Execute()
}
