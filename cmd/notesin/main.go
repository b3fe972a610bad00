// Command notesin is the terminal client for the Notes In service. Without a
// subcommand it opens the full-screen interface.
package main

func main() {
	Execute()
}
