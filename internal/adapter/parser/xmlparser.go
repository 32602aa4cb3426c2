package parser

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"newsfeed/internal/domain"
	"strings"
)

// XMLDecoder разбирает RSS-ленту в последовательность черновиков новостей.
// Работает на уровне токенов, а не фиксированной структуры: каждый
// дочерний элемент item сохраняется в черновике под своим именем,
// поэтому источники с нестандартными тегами не требуют отдельного типа.
// Reader одноразовый, повторное декодирование требует повторной загрузки.
type XMLDecoder struct {
	log *slog.Logger
}

func NewXMLDecoder(log *slog.Logger) *XMLDecoder {
	return &XMLDecoder{
		log: log,
	}
}

// Decode реализует метод интерфейса FeedDecoder.
// Возвращает черновики в порядке следования элементов ленты.
// Некорректная разметка оборачивается в domain.DecodeError.
func (d *XMLDecoder) Decode(ctx context.Context, reader io.Reader) ([]domain.FeedItemDraft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decoder := xml.NewDecoder(reader)

	var drafts []domain.FeedItemDraft
	var fields map[string]string
	var fieldName string
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			d.log.Error("Error decoding XML", slog.Any("error", err))
			return nil, &domain.DecodeError{Err: err}
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "item" && fields == nil {
				fields = make(map[string]string)
				continue
			}
			if fields != nil && fieldName == "" {
				fieldName = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if fieldName != "" {
				text.Write(t)
			}
		case xml.EndElement:
			if fieldName != "" && t.Name.Local == fieldName {
				// Первое встреченное значение поля имеет приоритет.
				if _, ok := fields[fieldName]; !ok {
					fields[fieldName] = text.String()
				}
				fieldName = ""
				continue
			}
			if fields != nil && t.Name.Local == "item" {
				drafts = append(drafts, domain.FeedItemDraft{Fields: fields})
				fields = nil
				fieldName = ""
			}
		}
	}
	d.log.Debug("Feed decoded", slog.Int("items", len(drafts)))
	return drafts, nil
}
