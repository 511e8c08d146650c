package main

import "github.com/JanikMartens/WiG/cmd"

func main() {
	cmd.Execute()
}
