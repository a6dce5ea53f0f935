// Command reptrack inspects and edits the local workout database.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/reptrack/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.GetExitCode(err))
}
