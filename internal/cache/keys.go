package cache

import (
	"fmt"
	"time"
)

// ListTag - общий тег всех списочных выборок новостей. Любая запись
// (создание, редактирование, удаление) инвалидирует весь тег, так как
// может сместить пагинацию и попадание в диапазон дат.
const ListTag = "news_list"

const keyDateFormat = "2006-01-02"

// NewsListKey возвращает детерминированный ключ кеша для страницы
// новостей за период: одинаковые параметры дают одинаковый ключ.
func NewsListKey(from, to time.Time, page, limit int) string {
	return fmt.Sprintf("news_list_%s_%s_page_%d_limit_%d",
		from.Format(keyDateFormat),
		to.Format(keyDateFormat),
		page,
		limit,
	)
}

// NewsByIDKey возвращает ключ кеша для одной новости.
func NewsByIDKey(id int64) string {
	return fmt.Sprintf("news_%d", id)
}
