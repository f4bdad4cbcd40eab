package main

import "github.com/oshokin/robot-alarm/cmd/robot-sender/cmd"

func main() {
	cmd.Execute()
}
