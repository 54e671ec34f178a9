// Package docx reads Word documents from memory: plain text lines, a
// minimal HTML rendering, the document title, and the embedded media
// files in document order.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MediaFile is one embedded binary image from the container.
type MediaFile struct {
	Name        string // base name inside word/media/
	Ext         string // lowercase extension without the dot
	ContentType string
	Data        []byte
}

// Document is the extracted content of a Word document. Lines holds
// paragraphs and table rows in document order, with table cells joined
// by tabs; Text is the same lines newline-joined. Media holds the
// embedded images ordered by their first reference in the body, with
// unreferenced files appended in natural name order.
type Document struct {
	Title string
	Lines []string
	Text  string
	HTML  string
	Media []MediaFile
}

const mediaPrefix = "word/media/"

// Parse opens the container and extracts text, HTML and media. Media
// problems degrade to a shorter media list; only an unreadable
// container or body is an error.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	fileIndex := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		fileIndex[f.Name] = f
	}

	docFile := fileIndex["word/document.xml"]
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in container")
	}
	docXML, err := readZipFile(docFile)
	if err != nil {
		return nil, fmt.Errorf("reading document.xml: %w", err)
	}

	rels := parseRels(fileIndex)

	w := &bodyWalker{rels: rels}
	if err := w.walk(docXML); err != nil {
		return nil, fmt.Errorf("parsing document xml: %w", err)
	}

	doc := &Document{
		Title: w.title,
		Lines: w.lines,
		Text:  strings.Join(w.lines, "\n"),
		HTML:  w.html.String(),
		Media: collectMedia(fileIndex, rels, w.blips),
	}
	if doc.Title == "" {
		doc.Title = firstNonBlank(doc.Lines)
	}
	return doc, nil
}

// ---------------------------------------------------------------------------
// Relationships
// ---------------------------------------------------------------------------

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
	Type   string `xml:"Type,attr"`
}

// parseRels reads word/_rels/document.xml.rels into a map of rId to
// target path. A missing or unreadable rels part returns nil; callers
// fall back to positional media enumeration.
func parseRels(fileIndex map[string]*zip.File) map[string]string {
	relsFile := fileIndex["word/_rels/document.xml.rels"]
	if relsFile == nil {
		return nil
	}
	data, err := readZipFile(relsFile)
	if err != nil {
		return nil
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}

	result := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		result[rel.ID] = rel.Target
	}
	return result
}

// ---------------------------------------------------------------------------
// Body walk
// ---------------------------------------------------------------------------

// bodyWalker streams through document.xml once, collecting text lines,
// the HTML rendering, the title, and blip reference IDs in encounter
// order.
type bodyWalker struct {
	rels map[string]string

	lines []string
	html  strings.Builder
	title string
	blips []string // rIds in document order

	para    strings.Builder
	imgs    []string // pending img targets for the open paragraph/cell
	inPara  bool
	inPPr   bool
	inText  bool
	heading bool

	cell   strings.Builder
	row    []string
	inCell bool
}

func (w *bodyWalker) walk(docXML []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(docXML))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Keep whatever was readable; fail only if nothing was.
			if len(w.lines) > 0 {
				slog.Warn("docx: document xml truncated, keeping partial text", "error", err)
				return nil
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t)
		case xml.CharData:
			w.chardata(t)
		}
	}
}

func (w *bodyWalker) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		if w.inCell {
			if w.cell.Len() > 0 {
				w.cell.WriteString(" ")
			}
			return
		}
		w.inPara = true
		w.heading = false
		w.para.Reset()
		w.imgs = w.imgs[:0]
	case "pPr":
		w.inPPr = true
	case "pStyle":
		if !w.inPPr {
			return
		}
		val := strings.ToLower(attrVal(t, "val"))
		if strings.HasPrefix(val, "heading") || strings.HasPrefix(val, "title") {
			w.heading = true
		}
	case "t":
		w.inText = true
	case "tab":
		w.write("\t")
	case "br", "cr":
		w.write(" ")
	case "blip":
		id := attrVal(t, "embed")
		if id == "" {
			return
		}
		w.blips = append(w.blips, id)
		if target, ok := w.rels[id]; ok {
			w.imgs = append(w.imgs, target)
		}
	case "tbl":
		w.html.WriteString("<table>\n")
	case "tr":
		w.row = w.row[:0]
		w.html.WriteString("<tr>")
	case "tc":
		w.inCell = true
		w.cell.Reset()
		w.imgs = w.imgs[:0]
	}
}

func (w *bodyWalker) end(t xml.EndElement) {
	switch t.Name.Local {
	case "p":
		if w.inCell || !w.inPara {
			return
		}
		w.inPara = false
		raw := w.para.String()
		text := strings.TrimSpace(raw)
		switch {
		case text != "":
			w.lines = append(w.lines, raw)
			if w.heading && w.title == "" {
				w.title = text
			}
			w.html.WriteString("<p>")
			w.html.WriteString(html.EscapeString(text))
			w.flushImgs()
			w.html.WriteString("</p>\n")
		case len(w.imgs) > 0:
			// Image-only paragraph.
			w.html.WriteString("<p>")
			w.flushImgs()
			w.html.WriteString("</p>\n")
		}
	case "pPr":
		w.inPPr = false
	case "t":
		w.inText = false
	case "tc":
		w.inCell = false
		cellText := strings.TrimSpace(w.cell.String())
		w.row = append(w.row, cellText)
		w.html.WriteString("<td>")
		w.html.WriteString(html.EscapeString(cellText))
		w.flushImgs()
		w.html.WriteString("</td>")
	case "tr":
		line := strings.Join(w.row, "\t")
		if strings.TrimSpace(line) != "" {
			w.lines = append(w.lines, line)
		}
		w.html.WriteString("</tr>\n")
	case "tbl":
		w.html.WriteString("</table>\n")
	}
}

func (w *bodyWalker) chardata(t xml.CharData) {
	if !w.inText {
		return
	}
	w.write(string(t))
}

// write routes run content into the open cell or paragraph.
func (w *bodyWalker) write(s string) {
	if w.inCell {
		w.cell.WriteString(s)
	} else if w.inPara {
		w.para.WriteString(s)
	}
}

func (w *bodyWalker) flushImgs() {
	for _, src := range w.imgs {
		w.html.WriteString(`<img src="`)
		w.html.WriteString(html.EscapeString(src))
		w.html.WriteString(`"/>`)
	}
	w.imgs = w.imgs[:0]
}

// attrVal returns the value of the named attribute, ignoring its
// namespace.
func attrVal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Media collection
// ---------------------------------------------------------------------------

// collectMedia loads the embedded images. Files referenced by the body
// come first, in reference order; anything else under word/media/
// follows in natural name order. With no usable relationship metadata
// the whole list degrades to the natural-order enumeration.
func collectMedia(fileIndex map[string]*zip.File, rels map[string]string, blipOrder []string) []MediaFile {
	var media []MediaFile
	used := make(map[string]bool)

	for _, id := range blipOrder {
		target, ok := rels[id]
		if !ok {
			continue
		}
		path := normalizeTarget(target)
		if used[path] {
			continue
		}
		used[path] = true
		if mf, ok := loadMedia(fileIndex, path); ok {
			media = append(media, mf)
		}
	}

	var rest []string
	for name := range fileIndex {
		if strings.HasPrefix(name, mediaPrefix) && !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return naturalLess(rest[i], rest[j]) })
	for _, name := range rest {
		if mf, ok := loadMedia(fileIndex, name); ok {
			media = append(media, mf)
		}
	}
	return media
}

// normalizeTarget resolves a rels target like "media/image1.png"
// against the word/ part root.
func normalizeTarget(target string) string {
	p := filepath.Clean("word/" + target)
	return strings.ReplaceAll(p, "\\", "/")
}

// loadMedia reads one media entry. Unknown types and unreadable
// entries are logged and skipped; they never abort the run.
func loadMedia(fileIndex map[string]*zip.File, path string) (MediaFile, bool) {
	zf := fileIndex[path]
	if zf == nil {
		slog.Debug("docx: media entry not found", "path", path)
		return MediaFile{}, false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	mime := mimeFromExt(ext)
	if mime == "" {
		slog.Debug("docx: skipping unsupported media type", "path", path)
		return MediaFile{}, false
	}
	data, err := readZipFile(zf)
	if err != nil {
		slog.Warn("docx: failed to read media entry", "path", path, "error", err)
		return MediaFile{}, false
	}
	return MediaFile{
		Name:        filepath.Base(path),
		Ext:         ext,
		ContentType: mime,
		Data:        data,
	}, true
}

// mimeFromExt returns the MIME type for common image extensions.
func mimeFromExt(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	case "emf":
		return "image/emf"
	case "wmf":
		return "image/wmf"
	default:
		return ""
	}
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// naturalLess orders names with embedded numbers numerically, so
// image2.png sorts before image10.png.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := chunk(a)
		cb, restB := chunk(b)
		if ca != cb {
			na, errA := strconv.Atoi(ca)
			nb, errB := strconv.Atoi(cb)
			if errA == nil && errB == nil {
				return na < nb
			}
			return ca < cb
		}
		a, b = restA, restB
	}
	return len(a) < len(b)
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (string, string) {
	isDigit := s[0] >= '0' && s[0] <= '9'
	for i := 1; i < len(s); i++ {
		if (s[i] >= '0' && s[i] <= '9') != isDigit {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func firstNonBlank(lines []string) string {
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			return s
		}
	}
	return ""
}
