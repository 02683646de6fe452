package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/shaiso/GrossNet/internal/domain"
)

// ResultSheetName — имя листа с результатами в выходном файле.
const ResultSheetName = "GrossNetResults"

// resultHeader — заголовок выходного файла: входные колонки + результаты.
var resultHeader = []string{
	ColumnGross, ColumnDependents, ColumnRegion,
	"NetIncome", "PIT", "TotalInsurance", "TaxableIncome", "PreTaxIncome",
	"BHXH", "BHYT", "BHTN", "CalculationStatus", "ErrorMessage",
}

// WriteXLSX рендерит результаты пакетной обработки в .xlsx.
func WriteXLSX(rows []domain.BatchRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Переименовываем дефолтный лист
	if err := f.SetSheetName("Sheet1", ResultSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(ResultSheetName, "A1", &resultHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cells := resultCells(row)
		addr, err := excelize.JoinCellName("A", i+2)
		if err != nil {
			return nil, fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(ResultSheetName, addr, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.RowNum, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV рендерит результаты пакетной обработки в .csv.
func WriteCSV(rows []domain.BatchRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(resultHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(resultHeader))
		for i, cell := range resultCells(row) {
			record[i] = fmt.Sprintf("%v", cell)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.RowNum, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// resultCells собирает ячейки выходной строки.
// Входные ячейки пишутся как есть; у ошибочных строк результаты пустые.
func resultCells(row domain.BatchRow) []any {
	cells := []any{row.GrossRaw, row.DependentsRaw, row.RegionRaw}

	if row.Result != nil {
		r := row.Result
		cells = append(cells,
			strconv.FormatInt(r.NetIncome, 10),
			strconv.FormatInt(r.PersonalIncomeTax, 10),
			strconv.FormatInt(r.TotalInsurance, 10),
			strconv.FormatInt(r.TaxableIncome, 10),
			strconv.FormatInt(r.PreTaxIncome, 10),
			strconv.FormatInt(r.Insurance.Social, 10),
			strconv.FormatInt(r.Insurance.Health, 10),
			strconv.FormatInt(r.Insurance.Unemployment, 10),
		)
	} else {
		cells = append(cells, "", "", "", "", "", "", "", "")
	}

	return append(cells, string(row.Status), row.Error)
}
