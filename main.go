package main

import "fabric-sync/cmd"

func main() {
	cmd.Execute()
}
