// litegen generates SQLite adapters for annotated Go models.
package main

import "github.com/syssam/litegen/cmd/litegen/commands"

func main() {
	commands.Execute()
}
