package payroll

import "math"

// NetSalary is base + bonus - deductions, rounded to cents.
func NetSalary(baseSalary, bonus, deductions float64) float64 {
	return Round2(Round2(baseSalary) + Round2(bonus) - Round2(deductions))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recalculate normalizes the money fields and derives NetSalary from them.
func (p *Payroll) Recalculate() {
	p.BaseSalary = Round2(p.BaseSalary)
	p.Bonus = Round2(p.Bonus)
	p.Deductions = Round2(p.Deductions)
	p.NetSalary = NetSalary(p.BaseSalary, p.Bonus, p.Deductions)
}
