package main

import "github.com/roadproximity/proximity/cmd/proximity/cmd"

func main() {
	cmd.Execute()
}
