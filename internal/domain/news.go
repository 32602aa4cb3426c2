package domain

import "time"

// Category представляет рубрику новостей, создается лениво при первом
// появлении имени в ленте.
type Category struct {
	ID   int64
	Name string
}

// Source представляет источник RSS-ленты. Пара (имя, URL) уникальна.
type Source struct {
	ID     int64
	Name   string
	RSSURL string
}

// News представляет каноническую запись новости. Поле Link уникально
// и служит ключом дедупликации.
type News struct {
	ID          int64
	Title       string
	Content     string
	Link        string
	PublishedAt time.Time
	CategoryID  int64
	SourceID    int64
}

// NewsDetail - развернутое представление новости для выдачи наружу:
// ссылки на рубрику и источник заменены их именами.
type NewsDetail struct {
	ID          int64
	Title       string
	Content     string
	Category    string
	Source      string
	Link        string
	PublishedAt time.Time
}
