package core

import (
	"reflect"
	"testing"
)

func recurringBill(title string, cents int64, period RecurringPeriod) Bill {
	return Bill{ID: title, Title: title, Amount: Money{Cents: cents}, IsRecurring: true, Period: period, Date: NewDate(2025, 1, 1)}
}

func oneTimeBill(title string, cents int64) Bill {
	return Bill{ID: title, Title: title, Amount: Money{Cents: cents}, Date: NewDate(2025, 1, 1)}
}

func TestAggregate(t *testing.T) {
	bills := []Bill{
		recurringBill("insurance", 18000, Monthly),
		recurringBill("mooring", 65000, Monthly),
		recurringBill("registration", 0, Yearly),
	}
	owners := []Owner{
		{UserID: "u1", Percentage: 50},
		{UserID: "u2", Percentage: 50},
	}

	s := Aggregate(bills, owners)

	if s.MonthlyTotal.Cents != 83000 {
		t.Errorf("MonthlyTotal = %d, want 83000", s.MonthlyTotal.Cents)
	}
	if s.YearlyTotal.Cents != 0 {
		t.Errorf("YearlyTotal = %d, want 0", s.YearlyTotal.Cents)
	}
	if s.AnnualizedTotal.Cents != 996000 {
		t.Errorf("AnnualizedTotal = %d, want 996000", s.AnnualizedTotal.Cents)
	}
	for _, share := range s.PerOwner {
		if share.AnnualCost.Cents != 498000 {
			t.Errorf("AnnualCost for %s = %d, want 498000", share.UserID, share.AnnualCost.Cents)
		}
	}
}

func TestAggregatePartitions(t *testing.T) {
	bills := []Bill{
		recurringBill("hoa", 10000, Monthly),
		recurringBill("tax", 120000, Yearly),
		oneTimeBill("repair", 45000),
	}

	s := Aggregate(bills, nil)

	if s.MonthlyTotal.Cents != 10000 {
		t.Errorf("MonthlyTotal = %d, want 10000", s.MonthlyTotal.Cents)
	}
	if s.YearlyTotal.Cents != 120000 {
		t.Errorf("YearlyTotal = %d, want 120000", s.YearlyTotal.Cents)
	}
	if s.OneTimeTotal.Cents != 45000 {
		t.Errorf("OneTimeTotal = %d, want 45000", s.OneTimeTotal.Cents)
	}
	if s.AnnualizedTotal.Cents != 240000 {
		t.Errorf("AnnualizedTotal = %d, want 240000", s.AnnualizedTotal.Cents)
	}
	if s.PerOwner != nil {
		t.Errorf("no owners, no shares: %+v", s.PerOwner)
	}
}

func TestAggregatePerOwnerReconstruction(t *testing.T) {
	bills := []Bill{
		recurringBill("odd", 3333, Monthly),
		recurringBill("prime", 101, Yearly),
	}
	owners := []Owner{
		{UserID: "u1", Percentage: 34},
		{UserID: "u2", Percentage: 33},
		{UserID: "u3", Percentage: 33},
	}

	s := Aggregate(bills, owners)

	var sum int64
	for _, share := range s.PerOwner {
		sum += share.AnnualCost.Cents
	}
	diff := sum - s.AnnualizedTotal.Cents
	if diff < 0 {
		diff = -diff
	}
	// Percentage splits of integer cents reconstruct the total to within
	// one cent per owner.
	if diff > int64(len(owners)) {
		t.Errorf("per-owner sum %d drifts %d cents from total %d", sum, diff, s.AnnualizedTotal.Cents)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	bills := []Bill{
		recurringBill("a", 1234, Monthly),
		recurringBill("b", 5678, Yearly),
		oneTimeBill("c", 910),
	}
	owners := []Owner{{UserID: "u1", Percentage: 60}, {UserID: "u2", Percentage: 40}}

	first := Aggregate(bills, owners)
	second := Aggregate(bills, owners)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregate not idempotent: %+v vs %+v", first, second)
	}
}

func TestOwnerValueShare(t *testing.T) {
	value := Money{Cents: 2500000} // $25,000 item
	if got := OwnerValueShare(value, Owner{UserID: "u1", Percentage: 34}); got.Cents != 850000 {
		t.Errorf("34%% of 2500000 = %d, want 850000", got.Cents)
	}
	if got := OwnerValueShare(value, Owner{UserID: "u2", Percentage: 33}); got.Cents != 825000 {
		t.Errorf("33%% of 2500000 = %d, want 825000", got.Cents)
	}
}
