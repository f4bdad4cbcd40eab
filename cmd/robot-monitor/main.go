package main

import "github.com/oshokin/robot-alarm/cmd/robot-monitor/cmd"

func main() {
	cmd.Execute()
}
