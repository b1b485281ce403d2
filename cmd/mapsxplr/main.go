package main

import "github.com/isaacphi/mapsxplr/internal/ui/cli"

func main() {
	cli.Execute()
}
