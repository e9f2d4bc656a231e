package main

import "github.com/jurisia/zarpar/internal/cli"

func main() {
	cli.Execute()
}
