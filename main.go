package main

import "github.com/fulmenhq/icondex/cmd"

func main() {
	cmd.Execute()
}
