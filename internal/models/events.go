package models

// CycleResult — итог одного цикла ингеста.
// Частичный успех — ожидаемый случай, поэтому глобальной ошибки здесь нет.
type CycleResult struct {
	Inserted      int
	FailedSources int
}

// CleanupResult — итог очистки.
type CleanupResult struct {
	Archived int
	Purged   int
	Trimmed  int
}

// ProgressKind — тип события пакетной регенерации summary.
type ProgressKind string

const (
	ProgressStart    ProgressKind = "start"
	ProgressItem     ProgressKind = "progress"
	ProgressComplete ProgressKind = "complete"
)

// SummaryProgress — снимок прогресса пакетной регенерации.
//
// Поля заполняются по типу события:
//   - start: Total;
//   - progress: Current, Total, Title, Updated, Fallback, LastError;
//   - complete: Total, Processed, Updated, Fallback, LastError.
//
// Updated считает записи с summary от модели, Fallback — записи,
// получившие шаблонное summary после исчерпания попыток.
type SummaryProgress struct {
	Kind      ProgressKind
	Current   int
	Total     int
	Processed int
	Updated   int
	Fallback  int
	Title     string
	LastError string
}
