// Package resthttp реализует публичный HTTP-интерфейс видеосервиса:
//   - GET / — проверка, что сервер жив.
//   - POST /upload — multipart-загрузка (поля file и title).
//   - GET /videos — список загруженных роликов в порядке загрузки.
//   - GET|HEAD /stream/{key} — отдача ролика с поддержкой Range.
//   - GET /health, POST /admin/gc, GET /admin/config — служебные эндпоинты.
//
// Остальные GET-запросы обслуживаются статикой из публичного каталога, если он есть.
package resthttp
