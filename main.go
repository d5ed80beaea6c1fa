package main

import "github.com/KaramelBytes/distlab-cli/cmd"

func main() {
	cmd.Execute()
}
