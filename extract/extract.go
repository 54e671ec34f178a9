// Package extract implements the task extraction core: step pattern
// matching, document structure detection, the three extraction
// strategies, and the fallback cascade that selects between them.
package extract

import "strings"

const (
	// DefaultTaskType is the classification label assigned to tasks
	// unless the caller overrides it.
	DefaultTaskType = "Operation"

	// DefaultMinParagraphLen is the minimum rune count for a paragraph
	// to be considered by the aggressive strategy.
	DefaultMinParagraphLen = 20

	// DefaultTableThreshold is the matching-line fraction above which a
	// document body is classified as table-like.
	DefaultTableThreshold = 0.20

	// PlaceholderActivity is the sentinel activity text for tasks
	// synthesized to fill a gap in the source numbering.
	PlaceholderActivity = "Step not found in source document"
)

// Task is one extracted procedural step.
type Task struct {
	TaskNumber    string `json:"task_no"`
	Type          string `json:"type"`
	ETASec        string `json:"eta_sec"`
	Description   string `json:"description"`
	Activity      string `json:"activity"`
	Specification string `json:"specification"`
	Attachment    string `json:"attachment"`
	HasImage      bool   `json:"has_image"`
}

// Placeholder reports whether the task was synthesized to fill a
// numbering gap rather than extracted from the source.
func (t Task) Placeholder() bool {
	return t.Activity == PlaceholderActivity
}

// appendSpecification adds a line to the task's specification field,
// newline-joined with whatever is already there.
func (t *Task) appendSpecification(line string) {
	if t.Specification != "" {
		t.Specification += "\n"
	}
	t.Specification += line
}

// AddAttachment records an associated image task number in the
// comma-joined attachment list, skipping duplicates, and marks the
// task as having an image.
func (t *Task) AddAttachment(num string) {
	for _, existing := range strings.Split(t.Attachment, ", ") {
		if existing == num {
			return
		}
	}
	if t.Attachment != "" {
		t.Attachment += ", "
	}
	t.Attachment += num
	t.HasImage = true
}

// ToolsRecord is one "Tools used" side-table row.
type ToolsRecord struct {
	TaskNumber string `json:"task_no"`
	Tools      string `json:"tools"`
}

// IMTRecord is one "IMT used" side-table row.
type IMTRecord struct {
	TaskNumber string `json:"task_no"`
	IMT        string `json:"imt"`
}

// Document is the extracted text content a strategy operates on.
type Document struct {
	Title string   // first heading or first non-blank line
	Lines []string // text lines in document order, tables as tab-joined rows
	Text  string   // the same lines newline-joined
}

// Params carries the caller-supplied extraction parameters. Zero
// values fall back to the package defaults.
type Params struct {
	AssemblyID      string  // numeric prefix for task numbers
	TaskType        string  // classification label, DefaultTaskType if empty
	MinParagraphLen int     // aggressive-strategy paragraph cutoff
	TableThreshold  float64 // structure detector threshold
}

func (p Params) withDefaults() Params {
	if p.TaskType == "" {
		p.TaskType = DefaultTaskType
	}
	if p.MinParagraphLen <= 0 {
		p.MinParagraphLen = DefaultMinParagraphLen
	}
	if p.TableThreshold <= 0 {
		p.TableThreshold = DefaultTableThreshold
	}
	return p
}

// Result is what a strategy produces. An empty task list is not an
// error; it signals the cascade to try the next strategy.
type Result struct {
	Tasks []Task
	Tools []ToolsRecord
	IMT   []IMTRecord
}

// last returns the most recently emitted task, or nil if none has
// been emitted yet. Special sections and continuation lines always
// attach here.
func (r *Result) last() *Task {
	if len(r.Tasks) == 0 {
		return nil
	}
	return &r.Tasks[len(r.Tasks)-1]
}

// newTask builds a task from a step index and its instruction text.
func newTask(step int, activity string, p Params) Task {
	return Task{
		TaskNumber: FormatTaskNumber(step, p.AssemblyID),
		Type:       p.TaskType,
		Activity:   activity,
	}
}
