package main

import (
	"github.com/qualens/qualens/cmd"
)

func main() {
	cmd.Execute()
}
