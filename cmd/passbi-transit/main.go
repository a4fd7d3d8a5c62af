// Command passbi-transit is the CLI entrypoint: make_base builds a
// snapshot from a request document, process_requests answers stat
// queries against one, and serve exposes the same queries over HTTP.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "make_base":
		if err := runMakeBase(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("make_base: %v", err)
		}
	case "process_requests":
		if err := runProcessRequests(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("process_requests: %v", err)
		}
	case "serve":
		if err := runServe(os.Stdin); err != nil {
			log.Fatalf("serve: %v", err)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: passbi-transit make_base|process_requests|serve")
}
