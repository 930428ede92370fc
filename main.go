package main

import "github.com/sidetalk/sidetalk/cmd"

func main() {
	cmd.Execute()
}
