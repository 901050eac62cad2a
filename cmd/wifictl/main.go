package main

import (
	"github.com/dogeorg/wifimgr/cmd/wifictl/cmd"
)

func main() {
	cmd.Execute()
}
