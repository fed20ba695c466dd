// rxlens CLI entry point.
package main

import "github.com/rxlens/rxlens/internal/interfaces/cli"

func main() {
	cli.Execute()
}
