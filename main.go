package main

import (
	"github.com/auditdash/auditdash/cmd"
)

func main() {
	cmd.Execute()
}
