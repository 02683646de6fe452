package taxcalc

import (
	"fmt"
	"math"

	"github.com/shaiso/GrossNet/internal/domain"
)

// ValidateInput проверяет входные данные расчёта.
func ValidateInput(in domain.CalcInput) error {
	if in.GrossIncome <= 0 {
		return ErrNonPositiveIncome
	}
	if in.Dependents < 0 {
		return ErrNegativeDependents
	}
	if in.Region < 1 || in.Region > 4 {
		return fmt.Errorf("region %d: %w", in.Region, ErrInvalidRegion)
	}
	return nil
}

// Calculate считает net-зарплату из gross по заданной политике.
//
// Порядок расчёта:
//  1. Страховые взносы работника. База взносов — gross, но не меньше
//     минимальной региональной зарплаты. BHXH/BHYT ограничены сверху
//     20 базовых зарплат, BHTN — 20 минимальных региональных.
//  2. Доход до налога = gross − взносы.
//  3. Налогооблагаемый доход = доход до налога − личный вычет −
//     вычеты за иждивенцев, но не меньше нуля.
//  4. PIT по прогрессивной шкале.
//  5. Net = gross − взносы − PIT.
//
// Все суммы округляются до целых VND.
func Calculate(p Policy, in domain.CalcInput) (domain.CalcResult, error) {
	if err := ValidateInput(in); err != nil {
		return domain.CalcResult{}, err
	}

	minWage, err := p.MinimumWage(in.Region)
	if err != nil {
		return domain.CalcResult{}, err
	}

	// 1. Страховые взносы
	insuranceBase := max(in.GrossIncome, minWage)

	socialHealthCap := p.BaseSalary * p.CapMultiplier
	unemploymentCap := minWage * p.CapMultiplier

	socialHealthBase := max(min(insuranceBase, socialHealthCap), minWage)
	unemploymentBase := max(min(insuranceBase, unemploymentCap), minWage)

	social := roundVND(float64(socialHealthBase) * p.SocialRate)
	health := roundVND(float64(socialHealthBase) * p.HealthRate)
	unemployment := roundVND(float64(unemploymentBase) * p.UnemploymentRate)
	totalInsurance := social + health + unemployment

	// 2. Доход до налога
	preTax := in.GrossIncome - totalInsurance

	// 3. Вычеты
	allowances := p.PersonalAllowance + int64(in.Dependents)*p.DependentAllowance
	taxable := max(preTax-allowances, 0)

	// 4. PIT по прогрессивной шкале
	pit := progressiveTax(p.Brackets, taxable)

	// 5. Net
	net := in.GrossIncome - totalInsurance - pit

	return domain.CalcResult{
		GrossIncome:       in.GrossIncome,
		NetIncome:         net,
		PersonalIncomeTax: pit,
		TotalInsurance:    totalInsurance,
		Insurance: domain.InsuranceBreakdown{
			Social:       social,
			Health:       health,
			Unemployment: unemployment,
			Total:        totalInsurance,
		},
		TaxableIncome: taxable,
		PreTaxIncome:  preTax,
	}, nil
}

// progressiveTax считает налог по прогрессивной шкале.
// Каждая ступень облагает только часть дохода внутри своих границ.
func progressiveTax(brackets []Bracket, taxable int64) int64 {
	if taxable <= 0 {
		return 0
	}

	var tax float64
	var prevLimit int64
	for _, b := range brackets {
		if taxable <= prevLimit {
			break
		}

		upper := b.Limit
		if upper == 0 || upper > taxable {
			upper = taxable
		}

		tax += float64(upper-prevLimit) * b.Rate
		prevLimit = b.Limit
		if prevLimit == 0 {
			break
		}
	}

	return max(roundVND(tax), 0)
}

// roundVND округляет до целых VND.
func roundVND(v float64) int64 {
	return int64(math.Round(v))
}
