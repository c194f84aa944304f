package main

import "eshelf/cmd/cli/command"

func main() {
	command.Execute()
}
