// Package multipart реализует потоковый разбор тела multipart/form-data без буферизации
// всего запроса в памяти. Основные элементы:
//   - cursor — буфер фиксированного размера с позицией чтения, общий для всех под-читателей;
//   - readToBoundary — построчный поиск строки границы (пропуск преамбулы и ресинхронизация);
//   - readHeaderBlock/parsePartHeader — заголовки части до пустой строки;
//   - partBody — тело части, останавливающееся ровно перед следующим разделителем.
//
// Decoder.NextPart отдаёт части по одной. Тело текущей части читается через сам Part;
// перед переходом к следующей части недочитанный остаток тела вычитывается и отбрасывается.
package multipart
