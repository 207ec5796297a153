package main

import "hysync/cmd"

func main() {
	cmd.Execute()
}
