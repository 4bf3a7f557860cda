package main

import (
	"os"

	"github.com/mbourmaud/failprint/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
