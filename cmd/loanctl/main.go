package main

import "github.com/GregMSThompson/energyhub-backend/internal/cli"

func main() {
	cli.Execute()
}
