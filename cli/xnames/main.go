package main

import "github.com/everFinance/xnames/cli/xnames/cmd"

func main() {
	cmd.Execute()
}
