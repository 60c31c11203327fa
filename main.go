package main

import "github.com/zinc-sig/fluttertools/cmd"

func main() {
	cmd.Execute()
}
