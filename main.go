package main

import "yatube/commands"

func main() {
	commands.Execute()
}
