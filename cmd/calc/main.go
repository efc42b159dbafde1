// Command calc is the standalone calculator: the same menu and arithmetic as
// the network clients, evaluated in-process.
package main

import (
	"os"
	"path/filepath"

	"github.com/danmuck/calcnet/internal/app"
)

func main() {
	os.Exit(app.RunLocal(filepath.Base(os.Args[0]), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
