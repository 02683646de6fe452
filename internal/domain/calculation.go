package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalcInput — входные данные расчёта gross-to-net.
//
// Все суммы в VND (донгах), без дробной части.
type CalcInput struct {
	// GrossIncome — месячная зарплата gross в VND. Должна быть > 0.
	GrossIncome int64 `json:"gross_income"`

	// Dependents — количество зарегистрированных иждивенцев. >= 0.
	Dependents int `json:"num_dependents"`

	// Region — регион работы (вьетнамские "вùng"): 1, 2, 3 или 4.
	// Определяет минимальную региональную зарплату и потолок BHTN.
	Region int `json:"region"`
}

// InsuranceBreakdown — детализация страховых взносов работника.
type InsuranceBreakdown struct {
	// Social — взнос социального страхования (BHXH), VND.
	Social int64 `json:"social_insurance"`

	// Health — взнос медицинского страхования (BHYT), VND.
	Health int64 `json:"health_insurance"`

	// Unemployment — взнос страхования от безработицы (BHTN), VND.
	Unemployment int64 `json:"unemployment_insurance"`

	// Total — сумма взносов работника, VND.
	Total int64 `json:"total"`
}

// CalcResult — результат расчёта gross-to-net.
type CalcResult struct {
	// GrossIncome — исходная зарплата gross, VND.
	GrossIncome int64 `json:"gross_income"`

	// NetIncome — зарплата на руки после налога и страховых взносов, VND.
	NetIncome int64 `json:"net_income"`

	// PersonalIncomeTax — подоходный налог (PIT / thuế TNCN), VND.
	PersonalIncomeTax int64 `json:"personal_income_tax"`

	// TotalInsurance — сумма страховых взносов работника, VND.
	TotalInsurance int64 `json:"total_insurance_contribution"`

	// Insurance — детализация страховых взносов.
	Insurance InsuranceBreakdown `json:"insurance_breakdown"`

	// TaxableIncome — налогооблагаемый доход после вычетов, VND.
	TaxableIncome int64 `json:"taxable_income"`

	// PreTaxIncome — доход после страховых взносов, до вычетов, VND.
	PreTaxIncome int64 `json:"pre_tax_income"`
}

// Calculation — сохранённый расчёт (история пользователя).
//
// Создаётся через API при явном сохранении. Input и Result хранятся
// вместе: при изменении входных данных результат пересчитывается.
type Calculation struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// Label — произвольная пользовательская метка. Может быть пустой.
	Label string `json:"label,omitempty"`

	// Input — входные данные расчёта.
	Input CalcInput `json:"input"`

	// Result — результат расчёта для Input.
	Result CalcResult `json:"result"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}
