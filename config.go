package taskmill

import "taskmill/extract"

// Config holds the processing defaults for a Processor.
type Config struct {
	// TaskType is the classification label given to every extracted
	// task unless the request overrides it. Defaults to "Operation".
	TaskType string `json:"task_type" yaml:"task_type"`

	// TableThreshold is the fraction of column-like lines above which
	// a document is treated as a table. Defaults to 0.20.
	TableThreshold float64 `json:"table_threshold" yaml:"table_threshold"`

	// MinParagraphLen is the minimum rune count for a paragraph to be
	// considered a task candidate by the aggressive fallback strategy.
	// Defaults to 20.
	MinParagraphLen int `json:"min_paragraph_len" yaml:"min_paragraph_len"`
}

// DefaultConfig returns a Config with the extraction defaults.
func DefaultConfig() Config {
	return Config{
		TaskType:        extract.DefaultTaskType,
		TableThreshold:  extract.DefaultTableThreshold,
		MinParagraphLen: extract.DefaultMinParagraphLen,
	}
}
