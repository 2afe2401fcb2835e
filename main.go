package main

import "github.com/theirongolddev/budgetwiz/cmd"

func main() {
	cmd.Execute()
}
