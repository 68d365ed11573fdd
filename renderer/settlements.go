package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/etnz/investor"
)

// SettlementsMarkdown renders journal records. Inconsistent ones come first
// under their own heading.
func SettlementsMarkdown(title string, settlements []investor.Settlement) string {
	r := &mdRenderer{}
	r.Printf("# %s\n\n", title)
	if len(settlements) == 0 {
		r.Printf("Nothing to report.\n")
		return r.String()
	}

	var review, others []investor.Settlement
	for _, s := range settlements {
		if s.State == investor.Inconsistent {
			review = append(review, s)
		} else {
			others = append(others, s)
		}
	}

	ConditionalBlock(r, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Needs review\n\n")
		table(w, review)
		return len(review) > 0
	})
	ConditionalBlock(r, func(w io.Writer) bool {
		table(w, others)
		return len(others) > 0
	})
	return r.String()
}

func table(w io.Writer, settlements []investor.Settlement) {
	fmt.Fprintf(w, "| Trade | Date | Account | Side | Symbol | Quantity | Total | State | Note |\n")
	fmt.Fprintf(w, "|:---|:---|:---|:---|:---|---:|---:|:---|:---|\n")
	for _, s := range settlements {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %d | %s | %s | %s |\n",
			s.ID, s.Created.Format(time.DateTime), s.Account, s.Side, s.Symbol, s.Quantity, s.Total, s.State, cell(s.Note))
	}
	fmt.Fprintf(w, "\n")
}
