// Command triage scores and ranks tasks by priority.
package main

import "github.com/papapumpkin/triage/cmd"

func main() {
	cmd.Execute()
}
