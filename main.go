package main

import (
	"audiolab/cmd"
)

func main() {
	cmd.Execute()
}
