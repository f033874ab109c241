// Command domq parses an HTML document and runs a CSS selector against
// it, printing the matches. With -t it prints the document tree instead.
//
// Usage:
//
//	domq -s "div.note > a[href]" page.html
//	cat page.html | domq -t
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/quiverhq/domtree/css"
	"github.com/quiverhq/domtree/dom"
	"github.com/quiverhq/domtree/domdbg"
	"github.com/quiverhq/domtree/markup"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("domq: ")

	selector := flag.String("s", "", "CSS selector to evaluate")
	showTree := flag.Bool("t", false, "print the parsed tree instead of matches")
	flag.Parse()

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	doc, err := markup.Parse(in)
	if err != nil {
		log.Fatal(err)
	}
	defer doc.AsNode().Release()

	if *showTree {
		fmt.Print(domdbg.Dump(doc.AsNode()))
		return
	}
	if *selector == "" {
		log.Fatal("no selector given (use -s, or -t for a tree dump)")
	}

	matches, err := css.QuerySelectorAll(doc.AsNode(), *selector)
	if err != nil {
		log.Fatal(err)
	}
	for _, el := range matches {
		printMatch(el)
	}
	if len(matches) == 0 {
		os.Exit(1)
	}
}

func printMatch(el *dom.Element) {
	out, err := markup.RenderString(el.AsNode())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
}
