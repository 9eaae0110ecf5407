package main

import "github.com/goblinsan/relnotes-helper/cmd/relnotes-helper/commands"

func main() {
	commands.Execute()
}
