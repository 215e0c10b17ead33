package main

import "github.com/warmautomation/aef/internal/cli"

func main() {
	cli.Execute()
}
