package main

import "github.com/talktobook/talktobook/cmd"

func main() {
	cmd.Execute()
}
