package main

import "hyprdash/cmd"

func main() {
	cmd.Execute()
}
