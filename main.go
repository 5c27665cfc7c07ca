package main

import "gambler/wager-engine/cmd"

func main() {
	cmd.Execute()
}
