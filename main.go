package main

import "github.com/rpgo/fire-engine/cmd"

func main() {
	cmd.Execute()
}
