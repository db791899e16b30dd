// Command talkctl is a command-line client for the talkflow chat relay.
package main

func main() {
	execute()
}
