package main

import "github.com/lepinkainen/showrunner/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
