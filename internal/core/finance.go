package core

type (
	// OwnerShare is one owner's slice of an item's annualized running cost.
	OwnerShare struct {
		UserID     string
		Percentage int
		// AnnualCost = annualized total × percentage / 100, half-up rounded
		// to whole cents.
		AnnualCost Money
	}

	// FinanceSummary aggregates an item's bills into the headline figures
	// shown on the dashboard, item detail and list views. The same numbers
	// must come out identically in all three places, which is why this is
	// the only code that computes them.
	//
	// Summing PerOwner annual costs reconstructs AnnualizedTotal to within
	// len(owners) cents; percentage splits of an integer cent amount cannot
	// always be exact.
	FinanceSummary struct {
		MonthlyTotal    Money
		YearlyTotal     Money
		OneTimeTotal    Money
		AnnualizedTotal Money
		PerOwner        []OwnerShare
	}
)

// Aggregate partitions bills by recurrence, totals them, and splits the
// annualized running cost across owners by percentage. Pure and idempotent;
// inputs are never modified.
//
// AnnualizedTotal = monthly total × 12 + yearly total.
func Aggregate(bills []Bill, owners []Owner) FinanceSummary {
	var s FinanceSummary
	for _, b := range bills {
		switch {
		case b.IsRecurring && b.Period == Monthly:
			s.MonthlyTotal = s.MonthlyTotal.Add(b.Amount)
		case b.IsRecurring && b.Period == Yearly:
			s.YearlyTotal = s.YearlyTotal.Add(b.Amount)
		case !b.IsRecurring:
			s.OneTimeTotal = s.OneTimeTotal.Add(b.Amount)
		}
	}
	s.AnnualizedTotal = Money{Cents: s.MonthlyTotal.Cents*12 + s.YearlyTotal.Cents}

	if len(owners) > 0 {
		s.PerOwner = make([]OwnerShare, len(owners))
		for i, o := range owners {
			s.PerOwner[i] = OwnerShare{
				UserID:     o.UserID,
				Percentage: o.Percentage,
				AnnualCost: s.AnnualizedTotal.MulDiv(int64(o.Percentage), 100),
			}
		}
	}
	return s
}

// OwnerValueShare is an owner's slice of the item's appraised value,
// half-up rounded to whole cents.
func OwnerValueShare(itemValue Money, o Owner) Money {
	return itemValue.MulDiv(int64(o.Percentage), 100)
}
