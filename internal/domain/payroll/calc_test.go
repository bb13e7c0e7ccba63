package payroll

import "testing"

func TestNetSalary(t *testing.T) {
	if net := NetSalary(5000, 500, 200); net != 5300 {
		t.Fatalf("expected net 5300, got %v", net)
	}
}

func TestNetSalaryRoundsToCents(t *testing.T) {
	if net := NetSalary(1000.004, 0.1, 0.2); net != 999.9 {
		t.Fatalf("expected net 999.9, got %v", net)
	}
}

func TestRecalculateDerivesNet(t *testing.T) {
	p := Payroll{BaseSalary: 3200, Bonus: 0, Deductions: 150.5, NetSalary: 1}
	p.Recalculate()
	if p.NetSalary != 3049.5 {
		t.Fatalf("expected net 3049.5, got %v", p.NetSalary)
	}
	if p.NetSalary != p.BaseSalary+p.Bonus-p.Deductions {
		t.Fatalf("net salary invariant broken: %+v", p)
	}
}
