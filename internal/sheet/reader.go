package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Имена обязательных колонок входного файла (регистр важен).
const (
	ColumnGross      = "GrossIncome"
	ColumnDependents = "Dependents"
	ColumnRegion     = "Region"
)

// Ошибки парсинга входного файла.
var (
	// ErrNotWorkbook — файл не открывается как xlsx.
	ErrNotWorkbook = errors.New("file is not a valid xlsx workbook")

	// ErrNoSheets — в книге нет ни одного листа.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrMissingColumns — в заголовке нет обязательных колонок.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrNoDataRows — после заголовка нет ни одной строки данных.
	ErrNoDataRows = errors.New("workbook has no data rows")
)

// InputRow — одна строка данных входного файла, сырые ячейки.
type InputRow struct {
	// Num — номер строки в файле (заголовок — строка 1).
	Num int

	// Gross, Dependents, Region — ячейки обязательных колонок как есть.
	Gross      string
	Dependents string
	Region     string
}

// Parse разбирает входной .xlsx: первый лист, первая строка — заголовок.
//
// Возвращает строки данных с сырыми значениями ячеек; типизация и
// валидация значений — ответственность вызывающего (worker обрабатывает
// ошибки построчно, не прерывая задание).
func Parse(data []byte) ([]InputRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	// Ищем обязательные колонки в заголовке
	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var result []InputRow
	for i, row := range rows[1:] {
		// GetRows обрезает хвостовые пустые ячейки
		if isEmptyRow(row) {
			continue
		}
		result = append(result, InputRow{
			Num:        i + 2,
			Gross:      cellAt(row, cols.gross),
			Dependents: cellAt(row, cols.dependents),
			Region:     cellAt(row, cols.region),
		})
	}

	if len(result) == 0 {
		return nil, ErrNoDataRows
	}

	return result, nil
}

// columnIndexes — позиции обязательных колонок в заголовке.
type columnIndexes struct {
	gross      int
	dependents int
	region     int
}

// findColumns находит обязательные колонки в строке заголовка.
func findColumns(header []string) (columnIndexes, error) {
	idx := columnIndexes{gross: -1, dependents: -1, region: -1}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnGross:
			idx.gross = i
		case ColumnDependents:
			idx.dependents = i
		case ColumnRegion:
			idx.region = i
		}
	}

	var missing []string
	if idx.gross < 0 {
		missing = append(missing, ColumnGross)
	}
	if idx.dependents < 0 {
		missing = append(missing, ColumnDependents)
	}
	if idx.region < 0 {
		missing = append(missing, ColumnRegion)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return idx, nil
}

// cellAt возвращает ячейку по индексу или пустую строку.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// isEmptyRow возвращает true, если все ячейки строки пустые.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
