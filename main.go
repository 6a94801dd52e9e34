package main

import "github.com/shandysiswandi/godash/cmd"

func main() {
	cmd.Execute()
}
