package main

import "spot/cmd/client/cmd"

func main() {
	cmd.Execute()
}
