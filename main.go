// webpbatch/main.go
package main

import (
	"os"

	"webpbatch/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
