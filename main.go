package main

import "github.com/frahmantamala/shift-management/cmd"

func main() {
	cmd.Execute()
}
