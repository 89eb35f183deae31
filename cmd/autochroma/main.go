package main

import "github.com/autochroma/autochroma/internal/cmd"

func main() {
	cmd.Execute()
}
