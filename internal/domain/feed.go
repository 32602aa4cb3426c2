package domain

// Стандартные имена тегов RSS 2.0, используются когда источник
// не переопределил их в конфигурации.
const (
	DefaultTitleTag       = "title"
	DefaultCategoryTag    = "category"
	DefaultDateTag        = "pubDate"
	DefaultDescriptionTag = "description"
	DefaultLinkTag        = "link"
)

// TagNames задает соответствие логических полей новости элементам
// RSS-ленты конкретного источника. Пустое значение означает
// стандартное имя тега.
type TagNames struct {
	Title       string
	Category    string
	Date        string
	Description string
	Link        string
}

// WithDefaults возвращает копию, в которой незаполненные поля
// заменены стандартными именами тегов.
func (t TagNames) WithDefaults() TagNames {
	if t.Title == "" {
		t.Title = DefaultTitleTag
	}
	if t.Category == "" {
		t.Category = DefaultCategoryTag
	}
	if t.Date == "" {
		t.Date = DefaultDateTag
	}
	if t.Description == "" {
		t.Description = DefaultDescriptionTag
	}
	if t.Link == "" {
		t.Link = DefaultLinkTag
	}
	return t
}

// FeedSource - конфигурация источника для одного прогона пайплайна:
// откуда читать ленту, сколько новостей сохранять и какими тегами
// источник кодирует поля.
type FeedSource struct {
	Name     string
	URL      string
	MaxItems int
	Tags     TagNames
}

// FeedItemDraft - декодированный, но еще не нормализованный элемент
// ленты: сырые текстовые значения дочерних элементов item по именам.
type FeedItemDraft struct {
	Fields map[string]string
}

// Get возвращает сырое значение поля по имени тега.
func (d FeedItemDraft) Get(tag string) string {
	return d.Fields[tag]
}
