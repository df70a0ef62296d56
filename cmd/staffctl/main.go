package main

import "github.com/mcoot/staffapi/internal/cli"

func main() {
	cli.Execute()
}
