package pack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"taskmill/figures"
)

// Archive bundles the workbook, the images and a manifest into a zip.
// The workbook sits at the root under workbookName, each image goes
// under images/ renamed to {taskNumber}.{ext}, and manifest.yaml
// closes the bundle.
func Archive(workbookName string, workbook []byte, images []figures.Image, m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(workbookName)
	if err != nil {
		return nil, fmt.Errorf("adding workbook entry: %w", err)
	}
	if _, err := w.Write(workbook); err != nil {
		return nil, fmt.Errorf("writing workbook entry: %w", err)
	}

	for _, img := range images {
		name := fmt.Sprintf("images/%s.%s", img.TaskNumber, img.Ext)
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		if _, err := w.Write(img.Data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
	}

	manifest, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serializing manifest: %w", err)
	}
	w, err = zw.Create("manifest.yaml")
	if err != nil {
		return nil, fmt.Errorf("adding manifest entry: %w", err)
	}
	if _, err := w.Write(manifest); err != nil {
		return nil, fmt.Errorf("writing manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookName is the file name the workbook takes inside the archive
// and as a standalone download.
func WorkbookName(assemblyName string) string {
	return "Tasks_" + safeName(assemblyName) + ".xlsx"
}

// ArchiveName is the download file name for the full package.
func ArchiveName(assemblyName string) string {
	return safeName(assemblyName) + "_Package.zip"
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeName flattens whitespace and path-hostile characters so the
// assembly name can be embedded in a file name.
func safeName(name string) string {
	s := unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "assembly"
	}
	return s
}
