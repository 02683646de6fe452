package taxcalc

import "fmt"

// Bracket — одна ступень прогрессивной шкалы PIT.
type Bracket struct {
	// Limit — верхняя граница ступени по месячному налогооблагаемому
	// доходу, VND. 0 означает "без ограничения" (последняя ступень).
	Limit int64 `json:"limit,omitempty"`

	// Rate — ставка налога в этой ступени, доля (0.05 = 5%).
	Rate float64 `json:"rate"`
}

// Policy — налоговая политика: все константы расчёта одной редакции.
type Policy struct {
	// Name — человекочитаемое имя редакции.
	Name string `json:"name"`

	// PersonalAllowance — личный вычет, VND в месяц.
	PersonalAllowance int64 `json:"personal_allowance"`

	// DependentAllowance — вычет за каждого иждивенца, VND в месяц.
	DependentAllowance int64 `json:"dependent_allowance"`

	// Ставки страховых взносов работника, доли.
	SocialRate       float64 `json:"social_insurance_rate"`
	HealthRate       float64 `json:"health_insurance_rate"`
	UnemploymentRate float64 `json:"unemployment_insurance_rate"`

	// BaseSalary — базовая зарплата (lương cơ sở), VND.
	// База BHXH/BHYT ограничена сверху BaseSalary * CapMultiplier.
	BaseSalary int64 `json:"base_salary"`

	// CapMultiplier — множитель потолков страховых баз.
	// BHTN ограничен CapMultiplier * региональная минимальная зарплата.
	CapMultiplier int64 `json:"cap_multiplier"`

	// MinimumWages — минимальная региональная зарплата по регионам, VND.
	MinimumWages map[int]int64 `json:"regional_minimum_wages"`

	// Brackets — прогрессивная шкала PIT по возрастанию лимита.
	Brackets []Bracket `json:"pit_brackets"`
}

// DefaultPolicy возвращает политику редакции апреля 2025.
func DefaultPolicy() Policy {
	return Policy{
		Name:               "vn-2025-04",
		PersonalAllowance:  11_000_000,
		DependentAllowance: 4_400_000,
		SocialRate:         0.08,
		HealthRate:         0.015,
		UnemploymentRate:   0.01,
		BaseSalary:         2_340_000,
		CapMultiplier:      20,
		MinimumWages: map[int]int64{
			1: 4_960_000,
			2: 4_410_000,
			3: 3_860_000,
			4: 3_450_000,
		},
		Brackets: []Bracket{
			{Limit: 5_000_000, Rate: 0.05},
			{Limit: 10_000_000, Rate: 0.10},
			{Limit: 18_000_000, Rate: 0.15},
			{Limit: 32_000_000, Rate: 0.20},
			{Limit: 52_000_000, Rate: 0.25},
			{Limit: 80_000_000, Rate: 0.30},
			{Limit: 0, Rate: 0.35},
		},
	}
}

// Validate проверяет согласованность политики.
func (p Policy) Validate() error {
	if len(p.Brackets) == 0 {
		return ErrEmptyBrackets
	}

	var prev int64
	for i, b := range p.Brackets {
		// Limit=0 допустим только у последней ступени
		if b.Limit == 0 {
			if i != len(p.Brackets)-1 {
				return fmt.Errorf("bracket %d: %w", i, ErrBracketOrder)
			}
			continue
		}
		if b.Limit <= prev {
			return fmt.Errorf("bracket %d: %w", i, ErrBracketOrder)
		}
		prev = b.Limit
	}

	for _, region := range []int{1, 2, 3, 4} {
		if _, ok := p.MinimumWages[region]; !ok {
			return fmt.Errorf("region %d: %w", region, ErrMissingRegion)
		}
	}

	return nil
}

// MinimumWage возвращает минимальную зарплату региона.
func (p Policy) MinimumWage(region int) (int64, error) {
	wage, ok := p.MinimumWages[region]
	if !ok {
		return 0, fmt.Errorf("region %d: %w", region, ErrInvalidRegion)
	}
	return wage, nil
}
