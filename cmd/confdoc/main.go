package main

import "github.com/mvp-joe/confdoc/internal/cli"

func main() {
	cli.Execute()
}
