package domain

// SkipReason классифицирует причину, по которой элемент ленты
// не был сохранен.
type SkipReason string

const (
	SkipDuplicateLink SkipReason = "duplicate_link"
	SkipMissingLink   SkipReason = "missing_link"
	SkipDateParse     SkipReason = "date_parse"
	SkipValidation    SkipReason = "validation"
)

// ItemFailure описывает один пропущенный элемент прогона.
type ItemFailure struct {
	Link   string
	Title  string
	Reason SkipReason
}

// RunReport - итог прогона пайплайна по одному источнику.
type RunReport struct {
	Source    string
	Persisted int
	Skipped   int
	Failures  []ItemFailure
}
