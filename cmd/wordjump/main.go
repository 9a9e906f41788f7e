package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/wordjump/internal/app"
	"github.com/peco/wordjump/internal/util"
)

var version = "v0.1.0"

func main() {
	err := app.New(version).Run(context.Background(), os.Args[1:])
	if err == nil {
		return
	}

	if err != app.ErrSignalReceived {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	st, _ := util.GetExitStatus(err)
	os.Exit(st)
}
