package main

import (
	"cleansync/cmd"
)

func main() {
	cmd.Execute()
}
