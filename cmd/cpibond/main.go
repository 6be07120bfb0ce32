// Command cpibond bootstraps zero-coupon inflation curves and prices CPI bonds
// from YAML market-data documents.
package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meenmo/cpilib/cmd/cpibond/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitSuccess
}
