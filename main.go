// Package main is the entry point of karaplay.
package main

import (
	"github.com/karaberus/karaplay/cmd"
	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
