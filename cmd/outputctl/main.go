package main

import "github.com/4chain-ag/go-hw-outputs/cmd/outputctl/commands"

func main() {
	commands.Execute()
}
