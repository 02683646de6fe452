// Package taxcalc реализует расчёт вьетнамской зарплаты gross-to-net.
//
// Структура:
//   - policy.go     — налоговая политика (ставки, вычеты, потолки, шкала PIT)
//   - calculator.go — сам расчёт: страховые взносы → вычеты → PIT → net
//   - errors.go     — ошибки валидации входных данных
//
// Пакет не имеет I/O и внешних зависимостей: policy передаётся значением,
// поэтому ставки будущих редакций подключаются без изменения кода.
// DefaultPolicy() содержит цифры редакции апреля 2025
// (Decree 74/2024/ND-CP, Resolution 954/2020/UBTVQH14).
package taxcalc
