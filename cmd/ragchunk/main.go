package main

import "ragchunk/internal/cli"

func main() {
	cli.Execute()
}
