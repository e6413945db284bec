package main

import "orangebox-setup/cmd"

func main() {
	cmd.Execute()
}
