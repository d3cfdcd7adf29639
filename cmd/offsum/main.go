// Command offsum is an offline summarization demo with a terminal chat and
// a web page.
package main

import "github.com/diogo/offsum/internal/commands"

func main() {
	commands.Execute()
}
