package main

import (
	"github.com/urfave/cli"

	"github.com/achilleasa/lumenpreview/logx"
)

var logger = logx.New("previewd")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("vv") {
		logx.SetLevel(logx.Debug)
		return
	}
	if ctx.GlobalBool("v") {
		logx.SetLevel(logx.Info)
	}
}
