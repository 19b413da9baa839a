package main

import "github.com/kissit/website/cmd"

func main() {
	cmd.Execute()
}
