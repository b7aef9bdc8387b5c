package main

import "github.com/egazette/gazette-chat/cmd"

func main() {
	cmd.Execute()
}
