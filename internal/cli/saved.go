package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSavedCmd создаёт группу команд для сохранённых расчётов.
func NewSavedCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved calculations",
	}

	cmd.AddCommand(
		newSavedListCmd(clientFn, outputFn),
		newSavedSaveCmd(clientFn, outputFn),
		newSavedShowCmd(clientFn, outputFn),
		newSavedUpdateCmd(clientFn, outputFn),
		newSavedDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

// savedTableRow — строка таблицы сохранённого расчёта.
func savedTableRow(c CalculationResponse) []string {
	return []string{
		c.ID,
		c.Label,
		formatVND(c.Input.GrossIncome),
		fmt.Sprintf("%d", c.Input.Dependents),
		fmt.Sprintf("%d", c.Input.Region),
		formatVND(c.Result.NetIncome),
		c.CreatedAt,
	}
}

var savedHeaders = []string{"ID", "LABEL", "GROSS", "DEPS", "REGION", "NET", "CREATED"}

func newSavedListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			calcs, err := client.ListCalculations(limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(calcs))
			for i, c := range calcs {
				rows[i] = savedTableRow(c)
			}

			out.Print(savedHeaders, rows, calcs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of calculations")

	return cmd
}

func newSavedSaveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var gross int64
	var dependents, region int
	var label string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Calculate and save the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			calc, err := client.SaveCalculation(SaveCalculationRequest{
				Label: label,
				Input: CalcRequest{
					GrossIncome: gross,
					Dependents:  dependents,
					Region:      region,
				},
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Calculation saved: %s", calc.ID))
			out.Print(savedHeaders, [][]string{savedTableRow(*calc)}, calc)
			return nil
		},
	}

	cmd.Flags().Int64Var(&gross, "gross", 0, "Gross monthly salary in VND (required)")
	cmd.Flags().IntVar(&dependents, "dependents", 0, "Number of registered dependents")
	cmd.Flags().IntVar(&region, "region", 1, "Work region (1-4)")
	cmd.Flags().StringVar(&label, "label", "", "Optional label")
	cmd.MarkFlagRequired("gross")

	return cmd
}

func newSavedShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			calc, err := client.GetCalculation(args[0])
			if err != nil {
				return err
			}

			if out.jsonMode {
				out.JSON(calc)
				return nil
			}

			printResult(out, &calc.Result)
			return nil
		},
	}
}

func newSavedUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var gross int64
	var dependents, region int
	var label string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a saved calculation (recomputes the result)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdateCalculationRequest{}
			if cmd.Flags().Changed("label") {
				req.Label = &label
			}
			if cmd.Flags().Changed("gross") {
				input := CalcRequest{
					GrossIncome: gross,
					Dependents:  dependents,
					Region:      region,
				}
				req.Input = &input
			}

			calc, err := client.UpdateCalculation(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Calculation updated")
			out.Print(savedHeaders, [][]string{savedTableRow(*calc)}, calc)
			return nil
		},
	}

	cmd.Flags().Int64Var(&gross, "gross", 0, "New gross monthly salary in VND")
	cmd.Flags().IntVar(&dependents, "dependents", 0, "New number of dependents")
	cmd.Flags().IntVar(&region, "region", 1, "New work region (1-4)")
	cmd.Flags().StringVar(&label, "label", "", "New label")

	return cmd
}

func newSavedDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteCalculation(args[0]); err != nil {
				return err
			}

			out.Success("Calculation deleted")
			return nil
		},
	}
}
