// Package streaming реализует отдачу сохранённых объектов по HTTP с поддержкой одного
// байтового диапазона (Range: bytes=start-end):
//   - Parse/ParseSpec/Resolve — разбор заголовка Range и проверка границ по размеру объекта.
//   - Responder — выбор 200/206, расчёт заголовков и потоковое копирование окна из хранилища.
package streaming
