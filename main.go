package main

import "github.com/varalys/fic/cmd/fic"

func main() {
	fic.Execute()
}
