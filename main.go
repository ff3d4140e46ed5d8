package main

import "github.com/andicelabs/powerctl/cmd"

func main() {
	cmd.Execute()
}
