package main

import "foodies-api/cli"

func main() {
	cli.Execute()
}
