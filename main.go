package main

import "github.com/Laisky/searchhub/cmd"

func main() {
	cmd.Execute()
}
