// Package cli реализует инструмент командной строки GrossNet.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с GrossNet API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для расчёта gross-to-net, управления сохранёнными
// расчётами и пакетной обработкой Excel-файлов.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для GrossNet API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8000")
//	result, err := client.Calculate(30000000, 1, 1)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: grossnet saved list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - calc: разовый расчёт gross-to-net
//   - policy: действующая налоговая политика
//   - saved: list, save, show, update, delete
//   - batch: list, upload, show, rows, download, delete
//
// Каждая группа создаётся через фабричную функцию (NewCalcCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
