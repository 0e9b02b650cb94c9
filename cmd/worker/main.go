package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker render <snapshot.json> <out.png> [base.png] [multiplier] | worker swatches")
	}

	switch os.Args[1] {
	case "render":
		RunRender(os.Args[2:])
	case "swatches":
		RunSwatches(os.Stdout)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
