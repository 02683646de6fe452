package sheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/shaiso/GrossNet/internal/domain"
)

// buildWorkbook собирает тестовый .xlsx с заданными строками.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		addr, err := excelize.JoinCellName("A", i+1)
		if err != nil {
			t.Fatalf("cell address: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", addr, &row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"GrossIncome", "Dependents", "Region"},
		{30000000, 1, 1},
		{20000000, 0, 2},
	})

	rows, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Num != 2 || rows[0].Gross != "30000000" || rows[0].Dependents != "1" || rows[0].Region != "1" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Num != 3 || rows[1].Gross != "20000000" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestParse_ColumnOrderIrrelevant(t *testing.T) {
	// Колонки могут идти в любом порядке, лишние игнорируются
	data := buildWorkbook(t, [][]any{
		{"Name", "Region", "GrossIncome", "Dependents"},
		{"An", 2, 25000000, 3},
	})

	rows, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rows[0].Gross != "25000000" || rows[0].Dependents != "3" || rows[0].Region != "2" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestParse_MissingColumns(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"GrossIncome", "Region"},
		{30000000, 1},
	})

	_, err := Parse(data)
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("expected ErrMissingColumns, got %v", err)
	}
}

func TestParse_NoDataRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"GrossIncome", "Dependents", "Region"},
	})

	_, err := Parse(data)
	if !errors.Is(err, ErrNoDataRows) {
		t.Errorf("expected ErrNoDataRows, got %v", err)
	}
}

func TestParse_NotWorkbook(t *testing.T) {
	_, err := Parse([]byte("definitely not a zip file"))
	if !errors.Is(err, ErrNotWorkbook) {
		t.Errorf("expected ErrNotWorkbook, got %v", err)
	}
}

func TestParse_SkipsEmptyRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"GrossIncome", "Dependents", "Region"},
		{30000000, 1, 1},
		{"", "", ""},
		{20000000, 0, 1},
	})

	rows, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Num != 4 {
		t.Errorf("expected row num 4, got %d", rows[1].Num)
	}
}

func testRows() []domain.BatchRow {
	return []domain.BatchRow{
		{
			RowNum:        2,
			GrossRaw:      "30000000",
			DependentsRaw: "1",
			RegionRaw:     "1",
			Status:        domain.RowStatusOK,
			Result: &domain.CalcResult{
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
			RowNum:        3,
			GrossRaw:      "abc",
			DependentsRaw: "0",
			RegionRaw:     "1",
			Status:        domain.RowStatusError,
			Error:         "invalid GrossIncome",
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(testRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ResultSheetName)
	if err != nil {
		t.Fatalf("read result sheet: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "GrossIncome" || rows[0][3] != "NetIncome" || rows[0][12] != "ErrorMessage" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	// Успешная строка: результаты заполнены
	if rows[1][3] != "25882500" || rows[1][11] != "Success" {
		t.Errorf("unexpected success row: %v", rows[1])
	}

	// Ошибочная строка: входные ячейки как есть, результаты пустые
	if rows[2][0] != "abc" {
		t.Errorf("expected raw input preserved, got %v", rows[2])
	}
	if got := rows[2][11]; got != "Error" {
		t.Errorf("expected Error status, got %q", got)
	}
	if got := rows[2][12]; got != "invalid GrossIncome" {
		t.Errorf("expected error message, got %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	data, err := WriteCSV(testRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 lines, got %d", len(lines))
	}

	if !bytes.HasPrefix(lines[0], []byte("GrossIncome,Dependents,Region,NetIncome")) {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !bytes.Contains(lines[1], []byte("25882500")) {
		t.Errorf("expected net income in row: %s", lines[1])
	}
	if !bytes.Contains(lines[2], []byte("invalid GrossIncome")) {
		t.Errorf("expected error message in row: %s", lines[2])
	}
}
