package main

import "github.com/Nazgutek/ajour/cmd"

func main() {
	cmd.Execute()
}
