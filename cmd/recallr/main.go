package main

import "github.com/whyteferrari/RECALLR/cmd"

func main() {
	cmd.Execute()
}
