// Command dialectql renders SQL Server and Oracle batches, type mappings
// and hi-lo sequence queries.
package main

import (
	"fmt"
	"os"

	"github.com/zoobzio/dialectql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
