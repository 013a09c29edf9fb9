package main

import "github.com/MeKo-Tech/barcodegen/cmd/barcodegen/cmd"

func main() {
	cmd.Execute()
}
