package main

import "github.com/RyanBlaney/sonido-workbench/cli"

func main() {
	cli.Execute()
}
