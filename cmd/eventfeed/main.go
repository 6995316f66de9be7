package main

import "github.com/jacoberrol/eventfeed/internal/cli"

func main() {
	cli.Execute()
}
