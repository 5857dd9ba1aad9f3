package main

import (
	"fmt"
	"io"
)

// cliNavigator считает экраном входа команду login
type cliNavigator struct {
	command string
	out     io.Writer
}

func (n *cliNavigator) OnLoginSurface() bool {
	return n.command == "login"
}

func (n *cliNavigator) RedirectToLogin() {
	fmt.Fprintln(n.out, "Your session has expired. Run `estate login <email>` to sign in again.")
}
