// main is the entry point of the newsline CLI.
package main

import (
	"github.com/huangsam/newsline/cmd"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("newsline failed", err)
	}
}
