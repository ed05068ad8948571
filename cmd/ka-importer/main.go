package main

import (
	"kaimporter/cmd/ka-importer/commands"
	"kaimporter/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
