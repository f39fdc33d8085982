package display

import (
	"fmt"
	"io"

	"github.com/backmassage/faststart/internal/term"
)

// PrintBanner writes the one-line program banner to w.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprintf(w, "%s v%s %s\n",
		term.Paint(term.Bold, "faststart"), version, term.Paint(term.Dim, "- moov-first MP4 remuxer"))
}
