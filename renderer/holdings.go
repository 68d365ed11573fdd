package renderer

import (
	"github.com/etnz/investor"
)

// HoldingsMarkdown renders the holdings of an account as a markdown table.
//
// prices is optional: when a symbol has a price, its market value is shown
// and totaled, otherwise the price and value cells are left as "-".
func HoldingsMarkdown(account investor.AccountID, holdings []investor.Holding, prices map[investor.Symbol]investor.Money) string {
	r := &mdRenderer{}
	r.Printf("# Holdings of %s\n\n", account)

	if len(holdings) == 0 {
		r.Printf("No holdings.\n")
		return r.String()
	}

	r.Printf("| Symbol | Quantity | Price | Value |\n")
	r.Printf("|:---|---:|---:|---:|\n")
	var total investor.Money
	valued := false
	for _, h := range holdings {
		price, value := "-", "-"
		if p, ok := prices[h.Symbol]; ok {
			v := p.Mul(h.Quantity)
			price, value = p.String(), v.String()
			total = total.Add(v)
			valued = true
		}
		r.Printf("| %s | %s | %s | %s |\n", cell(string(h.Symbol)), h.Quantity, price, value)
	}
	if valued {
		r.Printf("| **Total** | | | **%s** |\n", total)
	}
	return r.String()
}
