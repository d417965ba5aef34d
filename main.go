package main

import "github.com/nsyszr/rcm/cmd"

func main() {
	cmd.Execute()
}
