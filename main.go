package main

import "tickq/src/cli"

func main() {
	cli.Execute()
}
