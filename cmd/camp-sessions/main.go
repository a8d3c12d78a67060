// Command camp-sessions queries a barcamp's session plan from the command line.
package main

import "github.com/pfrederiksen/camp-sessions/internal/cli"

func main() {
	cli.Execute()
}
