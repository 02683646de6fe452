// Package sheet читает и пишет Excel-файлы пакетной обработки.
//
// Структура:
//   - reader.go — парсинг загруженного .xlsx (заголовки, строки данных)
//   - writer.go — рендеринг результатов в .xlsx и .csv
//
// Контракт входного файла: данные на первом листе, первая строка —
// заголовок с колонками GrossIncome, Dependents, Region (регистр важен).
// Выходной файл повторяет входные колонки и добавляет результаты расчёта
// на лист GrossNetResults.
package sheet
