package main

import "regionc/cmd"

func main() {
	cmd.Execute()
}
