package main

import "github.com/Aahrav/osdev/cmd/osdev/cmd"

func main() {
	cmd.Execute()
}
