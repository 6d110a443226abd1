package main

import "github.com/papapumpkin/pheno/cmd"

func main() {
	cmd.Execute()
}
