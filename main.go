package main

import "github.com/prefixsnap/prefixsnap/cmd"

func main() {
	cmd.Execute()
}
