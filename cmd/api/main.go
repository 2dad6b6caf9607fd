package main

import "yatube/internal/command"

func main() {
	command.Execute()
}
