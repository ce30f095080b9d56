// Command capdiff compares two reference captures and optionally writes an
// image highlighting the differing pixels.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/spf13/afero"

	"github.com/FabianRolfMatthiasNoll/sfcppu/internal/capture"
)

func main() {
	diffPath := flag.String("diff", "", "write a PNG marking differing pixels in red")
	scale := flag.Int("scale", 1, "integer upscale for -diff")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: capdiff [flags] want.sfcf got.sfcf\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	fs := afero.NewOsFs()
	want, err := capture.Read(fs, flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	got, err := capture.Read(fs, flag.Arg(1))
	if err != nil {
		log.Fatal(err)
	}
	r, err := capture.Diff(want, got)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(r)

	if *diffPath != "" {
		img, err := capture.DiffImage(want, got)
		if err != nil {
			log.Fatal(err)
		}
		f, err := os.Create(*diffPath)
		if err != nil {
			log.Fatalf("create %s: %v", *diffPath, err)
		}
		if err := png.Encode(f, capture.Scale(img, *scale)); err != nil {
			f.Close()
			log.Fatalf("write %s: %v", *diffPath, err)
		}
		f.Close()
		log.Printf("wrote %s", *diffPath)
	}
	if !r.Equal() {
		os.Exit(1)
	}
}
