package main

import "github.com/masmgr/repomine-go/cmd"

func main() {
	cmd.Run()
}
