package main

import "github.com/speclint/speclint/cmd"

func main() {
	cmd.Execute()
}
