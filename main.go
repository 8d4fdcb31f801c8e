package main

import (
	"github.com/go-imsto/bulkimg/cmd"
)

func main() {
	cmd.Main()
}
