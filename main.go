package main

import (
	"actual-importer/cmd"
)

func main() {
	cmd.Execute()
}
