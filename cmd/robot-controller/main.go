package main

import "github.com/oshokin/robot-alarm/cmd/robot-controller/cmd"

func main() {
	cmd.Execute()
}
