package main

import (
	"os"
	"path/filepath"

	"github.com/danmuck/calcnet/internal/app"
	"github.com/danmuck/calcnet/internal/config"
)

func main() {
	os.Exit(app.RunClient(config.UDP, filepath.Base(os.Args[0]), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
