package main

import "PriceList/cmd/pricelist/commands"

func main() {
	commands.Execute()
}
