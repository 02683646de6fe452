// GrossNet CLI — инструмент командной строки для расчёта gross-to-net
// и управления сохранёнными расчётами и пакетной обработкой через HTTP API.
//
// Использование:
//
//	grossnet [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	calc      Разовый расчёт gross-to-net
//	policy    Действующая налоговая политика
//	saved     Управление сохранёнными расчётами
//	batch     Управление пакетной обработкой Excel-файлов
//
// URL API берётся из --api-url, затем из BACKEND_API_URL,
// иначе http://localhost:8000.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/GrossNet/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func defaultAPIURL() string {
	if v := os.Getenv("BACKEND_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8000"
}

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "grossnet",
		Short:         "GrossNet CLI — Vietnamese gross-to-net salary calculator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL(), "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewCalcCmd(clientFn, outputFn),
		cli.NewPolicyCmd(clientFn, outputFn),
		cli.NewSavedCmd(clientFn, outputFn),
		cli.NewBatchCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
