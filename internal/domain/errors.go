package domain

import (
	"errors"
	"fmt"
)

// Сигнальные ошибки уровня домена. Проверяются через errors.Is.
var (
	// ErrNotFound - запись с указанным идентификатором отсутствует.
	ErrNotFound = errors.New("news not found")
	// ErrDuplicateLink - новость с таким link уже сохранена,
	// повторная вставка не выполняется.
	ErrDuplicateLink = errors.New("duplicate link")
)

// FetchError - транспортная ошибка при загрузке ленты или страницы
// статьи: сеть, таймаут или не-2xx ответ.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError - лента получена, но разметка не разбирается.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode feed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DateParseError - строка даты публикации не соответствует ни одному
// известному формату. Прерывает обработку только одного элемента.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// ValidationError - элемент не прошел проверку перед сохранением:
// отсутствует обязательное поле либо не разрешилась рубрика или источник.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// CacheError - сбой инвалидации кеша. Не блокирует успешную запись,
// только логируется.
type CacheError struct {
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
