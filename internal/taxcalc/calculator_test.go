package taxcalc

import (
	"errors"
	"testing"

	"github.com/shaiso/GrossNet/internal/domain"
)

func TestCalculate_Basic(t *testing.T) {
	tests := []struct {
		name string
		in   domain.CalcInput
		want domain.CalcResult
	}{
		{
			// 30M gross, 1 иждивенец, регион 1 — пример из документации API
			name: "30M one dependent region 1",
			in:   domain.CalcInput{GrossIncome: 30_000_000, Dependents: 1, Region: 1},
			want: domain.CalcResult{
				GrossIncome:       30_000_000,
				NetIncome:         25_882_500,
				PersonalIncomeTax: 967_500,
				TotalInsurance:    3_150_000,
				Insurance: domain.InsuranceBreakdown{
					Social:       2_400_000,
					Health:       450_000,
					Unemployment: 300_000,
					Total:        3_150_000,
				},
				TaxableIncome: 11_450_000,
				PreTaxIncome:  26_850_000,
			},
		},
		{
			name: "20M no dependents region 1",
			in:   domain.CalcInput{GrossIncome: 20_000_000, Dependents: 0, Region: 1},
			want: domain.CalcResult{
				GrossIncome:       20_000_000,
				NetIncome:         17_460_000,
				PersonalIncomeTax: 440_000,
				TotalInsurance:    2_100_000,
				Insurance: domain.InsuranceBreakdown{
					Social:       1_600_000,
					Health:       300_000,
					Unemployment: 200_000,
					Total:        2_100_000,
				},
				TaxableIncome: 6_900_000,
				PreTaxIncome:  17_900_000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(DefaultPolicy(), tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculate_InsuranceCaps(t *testing.T) {
	// 150M gross: база BHXH/BHYT ограничена 46.8M (20 базовых зарплат),
	// база BHTN — 99.2M (20 минимальных региона 1)
	got, err := Calculate(DefaultPolicy(), domain.CalcInput{
		GrossIncome: 150_000_000,
		Dependents:  0,
		Region:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Insurance.Social != 3_744_000 {
		t.Errorf("Social = %d, want 3744000", got.Insurance.Social)
	}
	if got.Insurance.Health != 702_000 {
		t.Errorf("Health = %d, want 702000", got.Insurance.Health)
	}
	if got.Insurance.Unemployment != 992_000 {
		t.Errorf("Unemployment = %d, want 992000", got.Insurance.Unemployment)
	}
	if got.TotalInsurance != 5_438_000 {
		t.Errorf("TotalInsurance = %d, want 5438000", got.TotalInsurance)
	}
	if got.PersonalIncomeTax != 36_896_700 {
		t.Errorf("PersonalIncomeTax = %d, want 36896700", got.PersonalIncomeTax)
	}
	if got.NetIncome != 107_665_300 {
		t.Errorf("NetIncome = %d, want 107665300", got.NetIncome)
	}
}

func TestCalculate_BelowAllowances(t *testing.T) {
	// Доход ниже вычетов — налога нет
	got, err := Calculate(DefaultPolicy(), domain.CalcInput{
		GrossIncome: 12_000_000,
		Dependents:  0,
		Region:      4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TaxableIncome != 0 {
		t.Errorf("TaxableIncome = %d, want 0", got.TaxableIncome)
	}
	if got.PersonalIncomeTax != 0 {
		t.Errorf("PersonalIncomeTax = %d, want 0", got.PersonalIncomeTax)
	}
	if got.NetIncome != 10_740_000 {
		t.Errorf("NetIncome = %d, want 10740000", got.NetIncome)
	}
}

func TestCalculate_GrossBelowMinimumWage(t *testing.T) {
	// Gross ниже минимальной региональной зарплаты: взносы считаются
	// от минимальной зарплаты региона, а не от gross
	got, err := Calculate(DefaultPolicy(), domain.CalcInput{
		GrossIncome: 3_000_000,
		Dependents:  0,
		Region:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Insurance.Social != 396_800 {
		t.Errorf("Social = %d, want 396800", got.Insurance.Social)
	}
	if got.Insurance.Health != 74_400 {
		t.Errorf("Health = %d, want 74400", got.Insurance.Health)
	}
	if got.Insurance.Unemployment != 49_600 {
		t.Errorf("Unemployment = %d, want 49600", got.Insurance.Unemployment)
	}
	if got.NetIncome != 2_479_200 {
		t.Errorf("NetIncome = %d, want 2479200", got.NetIncome)
	}
}

func TestCalculate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.CalcInput
		wantErr error
	}{
		{
			name:    "zero gross",
			in:      domain.CalcInput{GrossIncome: 0, Dependents: 0, Region: 1},
			wantErr: ErrNonPositiveIncome,
		},
		{
			name:    "negative gross",
			in:      domain.CalcInput{GrossIncome: -1, Dependents: 0, Region: 1},
			wantErr: ErrNonPositiveIncome,
		},
		{
			name:    "negative dependents",
			in:      domain.CalcInput{GrossIncome: 1, Dependents: -1, Region: 1},
			wantErr: ErrNegativeDependents,
		},
		{
			name:    "region zero",
			in:      domain.CalcInput{GrossIncome: 1, Dependents: 0, Region: 0},
			wantErr: ErrInvalidRegion,
		},
		{
			name:    "region five",
			in:      domain.CalcInput{GrossIncome: 1, Dependents: 0, Region: 5},
			wantErr: ErrInvalidRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(DefaultPolicy(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Run("default policy is valid", func(t *testing.T) {
		if err := DefaultPolicy().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty brackets", func(t *testing.T) {
		p := DefaultPolicy()
		p.Brackets = nil
		if err := p.Validate(); !errors.Is(err, ErrEmptyBrackets) {
			t.Errorf("expected ErrEmptyBrackets, got %v", err)
		}
	})

	t.Run("unordered brackets", func(t *testing.T) {
		p := DefaultPolicy()
		p.Brackets = []Bracket{
			{Limit: 10_000_000, Rate: 0.10},
			{Limit: 5_000_000, Rate: 0.05},
			{Limit: 0, Rate: 0.35},
		}
		if err := p.Validate(); !errors.Is(err, ErrBracketOrder) {
			t.Errorf("expected ErrBracketOrder, got %v", err)
		}
	})

	t.Run("open bracket not last", func(t *testing.T) {
		p := DefaultPolicy()
		p.Brackets = []Bracket{
			{Limit: 0, Rate: 0.35},
			{Limit: 5_000_000, Rate: 0.05},
		}
		if err := p.Validate(); !errors.Is(err, ErrBracketOrder) {
			t.Errorf("expected ErrBracketOrder, got %v", err)
		}
	})

	t.Run("missing region", func(t *testing.T) {
		p := DefaultPolicy()
		delete(p.MinimumWages, 3)
		if err := p.Validate(); !errors.Is(err, ErrMissingRegion) {
			t.Errorf("expected ErrMissingRegion, got %v", err)
		}
	})
}

func TestProgressiveTax_BracketBoundaries(t *testing.T) {
	brackets := DefaultPolicy().Brackets

	tests := []struct {
		taxable int64
		want    int64
	}{
		{0, 0},
		{5_000_000, 250_000},
		{5_000_001, 250_000}, // 0.1 донга сверх границы округляется вниз
		{10_000_000, 750_000},
		{18_000_000, 1_950_000},
		{32_000_000, 4_750_000},
		{52_000_000, 9_750_000},
		{80_000_000, 18_150_000},
		{100_000_000, 25_150_000},
	}

	for _, tt := range tests {
		if got := progressiveTax(brackets, tt.taxable); got != tt.want {
			t.Errorf("progressiveTax(%d) = %d, want %d", tt.taxable, got, tt.want)
		}
	}
}
