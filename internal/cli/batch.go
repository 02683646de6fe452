package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewBatchCmd создаёт группу команд пакетной обработки.
func NewBatchCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Manage batch Excel processing",
	}

	cmd.AddCommand(
		newBatchListCmd(clientFn, outputFn),
		newBatchUploadCmd(clientFn, outputFn),
		newBatchShowCmd(clientFn, outputFn),
		newBatchRowsCmd(clientFn, outputFn),
		newBatchDownloadCmd(clientFn, outputFn),
		newBatchDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

var batchHeaders = []string{"ID", "FILE", "STATUS", "ROWS", "ERRORS", "CREATED"}

func batchTableRow(j BatchJobResponse) []string {
	return []string{
		j.ID,
		j.FileName,
		j.Status,
		fmt.Sprintf("%d", j.TotalRows),
		fmt.Sprintf("%d", j.ErrorRows),
		j.CreatedAt,
	}
}

func newBatchListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batch jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			jobs, err := client.ListBatches(ListBatchesOpts{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				rows[i] = batchTableRow(j)
			}

			out.Print(batchHeaders, rows, jobs)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of jobs")

	return cmd
}

func newBatchUploadCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an Excel file for batch processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.UploadBatch(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Batch submitted: %s (%d rows)", job.ID, job.TotalRows))
			out.Print(batchHeaders, [][]string{batchTableRow(*job)}, job)
			return nil
		},
	}
}

func newBatchShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a batch job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.GetBatch(args[0])
			if err != nil {
				return err
			}

			out.Print(batchHeaders, [][]string{batchTableRow(*job)}, job)
			if job.Error != "" && !out.jsonMode {
				out.Error(job.Error)
			}
			return nil
		},
	}
}

func newBatchRowsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "rows ID",
		Short: "Show per-row results of a batch job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			rows, err := client.ListBatchRows(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ROW", "GROSS", "DEPS", "REGION", "STATUS", "NET", "ERROR"}
			table := make([][]string, len(rows))
			for i, r := range rows {
				net := ""
				if r.Result != nil {
					net = formatVND(r.Result.NetIncome)
				}
				table[i] = []string{
					fmt.Sprintf("%d", r.RowNum),
					r.GrossIncome,
					r.Dependents,
					r.Region,
					r.Status,
					net,
					r.Error,
				}
			}

			out.Print(headers, table, rows)
			return nil
		},
	}
}

func newBatchDownloadCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download the result file of a batch job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			format = strings.ToLower(format)
			if format != "xlsx" && format != "csv" {
				return fmt.Errorf("format must be xlsx or csv, got %q", format)
			}

			outPath := output
			if outPath == "" {
				outPath = args[0] + "_result." + format
			}
			if filepath.Ext(outPath) == "" {
				outPath += "." + format
			}

			n, err := client.DownloadBatchResult(args[0], format, outPath)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Result saved to %s (%d bytes)", outPath, n))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "xlsx", "Result format: xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")

	return cmd
}

func newBatchDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a batch job and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteBatch(args[0]); err != nil {
				return err
			}

			out.Success("Batch deleted")
			return nil
		},
	}
}
