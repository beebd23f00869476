package domain

// DepositRate is the share of a vendor's price settled by a deposit
const DepositRate = 0.3

// BudgetSummary is derived from an event's vendors and never stored
type BudgetSummary struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Deposited float64 `json:"deposited"`
	Remaining float64 `json:"remaining"`
	// Progress is the settled share of the total, in percent
	Progress float64 `json:"progress"`
}

// Budget computes the budget figures of an event
func Budget(e Event) BudgetSummary {
	var b BudgetSummary
	for _, v := range e.Vendors {
		b.Total += v.Price
		switch v.PaymentStatus {
		case PaymentPaid:
			b.Paid += v.Price
		case PaymentDeposited:
			b.Deposited += v.Price * DepositRate
		}
	}
	b.Remaining = b.Total - b.Paid - b.Deposited
	if b.Total > 0 {
		b.Progress = (b.Paid + b.Deposited) / b.Total * 100
	}
	return b
}

type CategoryTotal struct {
	Category Category `json:"category"`
	Vendors  int      `json:"vendors"`
	Total    float64  `json:"total"`
}

// CategoryTotals sums vendor prices per category, in selection order.
// Categories without vendors are included with zero values.
func CategoryTotals(e Event) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(Categories()))
	for _, c := range Categories() {
		ct := CategoryTotal{Category: c}
		for _, v := range e.Vendors {
			if v.Category == c {
				ct.Vendors++
				ct.Total += v.Price
			}
		}
		totals = append(totals, ct)
	}
	return totals
}

// PaidVendorCount counts vendors that are fully paid
func PaidVendorCount(e Event) int {
	n := 0
	for _, v := range e.Vendors {
		if v.PaymentStatus == PaymentPaid {
			n++
		}
	}
	return n
}

// CompletedCount is the number of categories the wizard has handled
func CompletedCount(e Event) int {
	n := 0
	for _, c := range Categories() {
		if e.CompletedCategories[c] {
			n++
		}
	}
	return n
}
