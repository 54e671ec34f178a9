package pack

import "time"

// Manifest describes one generated package. It is written to the
// archive root as manifest.yaml.
type Manifest struct {
	AssemblyName string    `yaml:"assembly_name"`
	AssemblyID   string    `yaml:"assembly_seq_id"`
	DocTitle     string    `yaml:"doc_title,omitempty"`
	GeneratedAt  time.Time `yaml:"generated_at"`
	Workbook     string    `yaml:"workbook"`
	TaskCount    int       `yaml:"task_count"`
	ImageCount   int       `yaml:"image_count"`
	Strategy     string    `yaml:"strategy"`

	// Operator-supplied figure range hints, recorded as given.
	FigureStart int `yaml:"figure_start,omitempty"`
	FigureEnd   int `yaml:"figure_end,omitempty"`
}
