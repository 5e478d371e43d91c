package main

import "github.com/monochain/monochain/cmd/monochain"

func main() {
	monochain.Execute()
}
