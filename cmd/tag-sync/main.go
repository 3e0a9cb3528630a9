package main

import "github.com/oshokin/tag-sync/cmd/tag-sync/cmd"

func main() {
	cmd.Execute()
}
