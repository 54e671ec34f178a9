// Package figures numbers embedded document images from in-text figure
// references and maps them onto extracted tasks.
package figures

import (
	"regexp"
	"sort"
	"strconv"

	"taskmill/docx"
	"taskmill/extract"
)

// Image is one embedded image keyed to a figure-derived task number.
// TaskNumber shares the task number format, so an image for figure 3
// under assembly "7" is keyed "7.0.003" and lands in the output
// archive as images/7.0.003.<ext>.
type Image struct {
	TaskNumber  string
	FigureNum   int
	Name        string
	Ext         string
	ContentType string
	Data        []byte
}

// figurePatterns are the in-text reference forms scanned for, each
// with one numeric capture group.
var figurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bFigure\s+(\d+)`),
	regexp.MustCompile(`(?i)\bFig\.?\s*(\d+)`),
	regexp.MustCompile(`(?i)\bPhoto\s+(\d+)`),
	regexp.MustCompile(`(?i)\bPicture\s+(\d+)`),
	regexp.MustCompile(`(?i)\bImage\s+(\d+)`),
	regexp.MustCompile(`(?i)\bIllustration\s+(\d+)`),
}

// FigureRefs returns the distinct figure numbers referenced in text,
// sorted ascending.
func FigureRefs(text string) []int {
	seen := make(map[int]bool)
	for _, re := range figurePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				continue
			}
			seen[n] = true
		}
	}
	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)
	return refs
}

// Extract numbers the document's media files from its figure
// references. The association is positional: the Nth distinct figure
// number goes to the Nth media file in discovery order. Media files
// beyond the reference count continue sequentially past the highest
// referenced number, and with no references at all every file is
// numbered from 1.
func Extract(doc *docx.Document, assemblyID string) []Image {
	refs := FigureRefs(doc.HTML)
	maxRef := 0
	if len(refs) > 0 {
		maxRef = refs[len(refs)-1]
	}

	images := make([]Image, 0, len(doc.Media))
	for i, m := range doc.Media {
		var figNum int
		if i < len(refs) {
			figNum = refs[i]
		} else {
			figNum = maxRef + (i - len(refs)) + 1
		}
		images = append(images, Image{
			TaskNumber:  extract.FormatTaskNumber(figNum, assemblyID),
			FigureNum:   figNum,
			Name:        m.Name,
			Ext:         m.Ext,
			ContentType: m.ContentType,
			Data:        m.Data,
		})
	}
	return images
}
