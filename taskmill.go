// Package taskmill turns procedural Word documents into normalized
// task datasets and downloadable packages. The document is parsed for
// text and embedded images, a cascade of extraction strategies turns
// the text into an ordered task list, figure references bind images to
// tasks, and the pack package serializes everything into an xlsx
// workbook and a zip archive.
package taskmill

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"taskmill/docx"
	"taskmill/extract"
	"taskmill/figures"
	"taskmill/pack"
)

// Processor is the entry point for document processing. It is
// stateless apart from its configuration and safe for concurrent use.
type Processor struct {
	cfg Config
}

// New creates a Processor with the given configuration. Zero-value
// fields fall back to the package defaults.
func New(cfg Config) *Processor {
	if cfg.TaskType == "" {
		cfg.TaskType = extract.DefaultTaskType
	}
	if cfg.TableThreshold <= 0 {
		cfg.TableThreshold = extract.DefaultTableThreshold
	}
	if cfg.MinParagraphLen <= 0 {
		cfg.MinParagraphLen = extract.DefaultMinParagraphLen
	}
	return &Processor{cfg: cfg}
}

// Request carries one document and its operator-supplied parameters.
type Request struct {
	// Filename is used for logging only.
	Filename string

	// Data is the raw document container.
	Data []byte

	// AssemblySeqID is the numeric prefix for all task numbers. It
	// must parse as a positive integer.
	AssemblySeqID string

	// AssemblyName becomes every task's description, verbatim.
	AssemblyName string

	// FigureStart and FigureEnd bound the figure numbers the operator
	// expects. They are hints for diagnostics, not a hard filter.
	FigureStart int
	FigureEnd   int

	// TaskType overrides the configured classification label when set.
	TaskType string
}

// Result is the outcome of one processing run.
type Result struct {
	Tasks  []extract.Task        `json:"tasks"`
	Tools  []extract.ToolsRecord `json:"tools,omitempty"`
	IMT    []extract.IMTRecord   `json:"imt,omitempty"`
	Images []figures.Image       `json:"-"`

	// Strategy names the extraction strategy that produced the tasks.
	Strategy string `json:"strategy"`

	// DocTitle is the document's own title line.
	DocTitle string `json:"doc_title"`

	AssemblySeqID string `json:"assembly_seq_id"`
	AssemblyName  string `json:"assembly_name"`

	// FigureStart and FigureEnd echo the request hints for the
	// package manifest.
	FigureStart int `json:"-"`
	FigureEnd   int `json:"-"`
}

// ProcessOption configures one processing run.
type ProcessOption func(*processOptions)

type processOptions struct {
	progress func(stage string, percent int)
}

// WithProgress registers a callback invoked as each pipeline stage
// completes. Stages are "parsed", "extracted" and "mapped" with a
// coarse completion percentage; packaging happens outside Process and
// is not reported here.
func WithProgress(fn func(stage string, percent int)) ProcessOption {
	return func(o *processOptions) { o.progress = fn }
}

func (o *processOptions) emit(stage string, percent int) {
	if o.progress != nil {
		o.progress(stage, percent)
	}
}

// Process runs the full pipeline on one document: parse, extract tasks
// via the strategy cascade, number the images and map them onto tasks.
// Validation failures and empty results come back as the package's
// sentinel errors; image problems only shrink the image list.
func (p *Processor) Process(ctx context.Context, req Request, opts ...ProcessOption) (*Result, error) {
	options := &processOptions{}
	for _, o := range opts {
		o(options)
	}

	req.AssemblySeqID = strings.TrimSpace(req.AssemblySeqID)
	req.AssemblyName = strings.TrimSpace(req.AssemblyName)
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	slog.Info("process: parsing document",
		"file", req.Filename, "bytes", len(req.Data),
		"assembly_seq_id", req.AssemblySeqID, "assembly_name", req.AssemblyName)
	if req.FigureStart > 0 || req.FigureEnd > 0 {
		slog.Debug("process: figure range hint", "start", req.FigureStart, "end", req.FigureEnd)
	}

	doc, err := docx.Parse(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	options.emit("parsed", 30)

	if !hasText(doc.Lines) {
		return nil, ErrEmptyDocument
	}

	taskType := req.TaskType
	if taskType == "" {
		taskType = p.cfg.TaskType
	}

	res, strategy := extract.Run(extract.Document{
		Title: doc.Title,
		Lines: doc.Lines,
		Text:  doc.Text,
	}, extract.Params{
		AssemblyID:      req.AssemblySeqID,
		TaskType:        taskType,
		MinParagraphLen: p.cfg.MinParagraphLen,
		TableThreshold:  p.cfg.TableThreshold,
	})
	if len(res.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no extraction strategy recognized the document structure", ErrNoTasks)
	}
	slog.Info("process: extraction complete",
		"file", req.Filename, "strategy", strategy,
		"tasks", len(res.Tasks), "tools", len(res.Tools), "imt", len(res.IMT),
		"elapsed", time.Since(start).Round(time.Millisecond))
	options.emit("extracted", 70)

	for i := range res.Tasks {
		res.Tasks[i].Description = req.AssemblyName
	}

	images := figures.Extract(doc, req.AssemblySeqID)
	figures.MapToTasks(res.Tasks, images, req.AssemblySeqID)
	options.emit("mapped", 90)

	slog.Info("process: document ready",
		"file", req.Filename, "tasks", len(res.Tasks), "images", len(images),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &Result{
		Tasks:         res.Tasks,
		Tools:         res.Tools,
		IMT:           res.IMT,
		Images:        images,
		Strategy:      strategy,
		DocTitle:      doc.Title,
		AssemblySeqID: req.AssemblySeqID,
		AssemblyName:  req.AssemblyName,
		FigureStart:   req.FigureStart,
		FigureEnd:     req.FigureEnd,
	}, nil
}

// Package is the downloadable output bundle for one result.
type Package struct {
	WorkbookName string
	Workbook     []byte
	ArchiveName  string
	Archive      []byte
}

// BuildPackage serializes a result into its workbook and archive.
// Failures come back as ErrPackaging and leave the result untouched,
// so extracted tasks stay visible to the caller.
func BuildPackage(res *Result) (*Package, error) {
	workbook, err := pack.Workbook(res.Tasks, res.Tools, res.IMT)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	name := pack.WorkbookName(res.AssemblyName)
	archive, err := pack.Archive(name, workbook, res.Images, pack.Manifest{
		AssemblyName: res.AssemblyName,
		AssemblyID:   res.AssemblySeqID,
		DocTitle:     res.DocTitle,
		GeneratedAt:  time.Now().UTC(),
		Workbook:     name,
		TaskCount:    len(res.Tasks),
		ImageCount:   len(res.Images),
		Strategy:     res.Strategy,
		FigureStart:  res.FigureStart,
		FigureEnd:    res.FigureEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	return &Package{
		WorkbookName: name,
		Workbook:     workbook,
		ArchiveName:  pack.ArchiveName(res.AssemblyName),
		Archive:      archive,
	}, nil
}

// ValidateRequest checks the operator-supplied parameters without
// running any extraction, so callers can reject bad input before
// scheduling work.
func ValidateRequest(req Request) error {
	n, err := strconv.Atoi(strings.TrimSpace(req.AssemblySeqID))
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAssemblyID, req.AssemblySeqID)
	}
	if strings.TrimSpace(req.AssemblyName) == "" {
		return ErrEmptyAssemblyName
	}
	if len(req.Data) == 0 {
		return ErrEmptyDocument
	}
	return nil
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
