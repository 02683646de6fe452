package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCalcCmd создаёт команду разового расчёта gross-to-net.
func NewCalcCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var gross int64
	var dependents, region int
	var save bool
	var label string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate net income from gross salary",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			input := CalcRequest{
				GrossIncome: gross,
				Dependents:  dependents,
				Region:      region,
			}

			if save {
				calc, err := client.SaveCalculation(SaveCalculationRequest{
					Label: label,
					Input: input,
				})
				if err != nil {
					return err
				}

				out.Success(fmt.Sprintf("Calculation saved: %s", calc.ID))
				printResult(out, &calc.Result)
				return nil
			}

			result, err := client.Calculate(input.GrossIncome, input.Dependents, input.Region)
			if err != nil {
				return err
			}

			printResult(out, result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&gross, "gross", 0, "Gross monthly salary in VND (required)")
	cmd.Flags().IntVar(&dependents, "dependents", 0, "Number of registered dependents")
	cmd.Flags().IntVar(&region, "region", 1, "Work region (1-4)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the calculation")
	cmd.Flags().StringVar(&label, "label", "", "Label for the saved calculation (with --save)")
	cmd.MarkFlagRequired("gross")

	return cmd
}

// printResult выводит результат расчёта построчно.
func printResult(out *Output, r *CalcResultResponse) {
	headers := []string{"FIELD", "VND"}
	rows := [][]string{
		{"Gross income", formatVND(r.GrossIncome)},
		{"Social insurance (BHXH)", formatVND(r.Insurance.Social)},
		{"Health insurance (BHYT)", formatVND(r.Insurance.Health)},
		{"Unemployment insurance (BHTN)", formatVND(r.Insurance.Unemployment)},
		{"Total insurance", formatVND(r.TotalInsurance)},
		{"Pre-tax income", formatVND(r.PreTaxIncome)},
		{"Taxable income", formatVND(r.TaxableIncome)},
		{"Personal income tax", formatVND(r.PersonalIncomeTax)},
		{"Net income", formatVND(r.NetIncome)},
	}

	out.Print(headers, rows, r)
}

// NewPolicyCmd создаёт команду просмотра налоговой политики.
func NewPolicyCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Show the active tax policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			policy, err := client.GetPolicy()
			if err != nil {
				return err
			}

			// Политика — вложенная структура, таблица тут не читается
			out.JSON(policy)
			return nil
		},
	}
}
