package main

import "gfit/cmd/client/cmd"

func main() {
	cmd.Execute()
}
