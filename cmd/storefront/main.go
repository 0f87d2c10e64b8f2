package main

import "github.com/jrsteele09/go-storefront-session/internal/cli"

func main() {
	cli.Execute()
}
