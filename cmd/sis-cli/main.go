package main

import (
	"sisquery/cmd/sis-cli/commands"
	"sisquery/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
