package main

import "github.com/kozaktomas/page-composer/cmd"

func main() {
	cmd.Execute()
}
