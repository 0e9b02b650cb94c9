package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/product"
)

func RunSwatches(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOLOR\tFILTER")
	for _, s := range product.Swatches() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Value, product.FilterFor(s.Value))
	}
	tw.Flush()
}
