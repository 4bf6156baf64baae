// Package main is the entry point for cheta.
package main

import (
	"github.com/cheta-player/cheta/cmd"
	"github.com/cheta-player/cheta/config"
	"github.com/cheta-player/cheta/history"
	"github.com/cheta-player/cheta/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Drop resume points of sources not played for a while.
	go history.CollectGarbage()

	cmd.Execute()
}
