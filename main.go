package main

import "github.com/chazu/armature/cmd"

func main() {
	cmd.Execute()
}
