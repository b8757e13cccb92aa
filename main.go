package main

import "github.com/ticketscope/ticketscope/cmd"

func main() {
	cmd.Execute()
}
