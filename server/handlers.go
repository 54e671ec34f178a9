package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"taskmill"
)

const (
	wordContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var zipMagic = []byte("PK\x03\x04")

// handleProcess accepts a multipart upload with the document and its
// parameters, validates it synchronously, and schedules the extraction
// in the background. Bad parameters never become failed jobs.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadMB << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	if !looksLikeWordDocument(header.Header.Get("Content-Type"), header.Filename, data) {
		writeError(w, http.StatusUnsupportedMediaType, "only Word documents (.docx) are accepted")
		return
	}

	req := taskmill.Request{
		Filename:      filepath.Base(header.Filename),
		Data:          data,
		AssemblySeqID: r.FormValue("assembly_seq_id"),
		AssemblyName:  r.FormValue("assembly_name"),
		TaskType:      r.FormValue("type"),
		FigureStart:   formInt(r, "figure_start"),
		FigureEnd:     formInt(r, "figure_end"),
	}
	if err := taskmill.ValidateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	j := s.jobs.create(req.Filename, req.AssemblyName)
	go s.run(j, req)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": j.id,
		"status": StatusProcessing,
	})
}

// run executes one job in the background, pushing stage events to the
// websocket subscribers as the pipeline advances.
func (s *Server) run(j *job, req taskmill.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := s.processor.Process(ctx, req, taskmill.WithProgress(func(stage string, percent int) {
		j.progress(stage, percent)
		s.hub.broadcast(j.id, Event{JobID: j.id, Status: StatusProcessing, Stage: stage, Percent: percent, At: time.Now().UTC()})
	}))
	if err != nil {
		j.fail(err)
		slog.Error("job failed", "job_id", j.id, "file", req.Filename, "error", err)
		s.hub.broadcast(j.id, Event{JobID: j.id, Status: StatusFailed, Error: err.Error(), At: time.Now().UTC()})
		return
	}

	j.complete(res)
	s.hub.broadcast(j.id, Event{JobID: j.id, Status: StatusReady, Stage: "done", Percent: 100, At: time.Now().UTC()})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, j.view())
}

// handleTasks returns the extracted tasks, tools, and IMT records for
// a finished job. Tasks stay readable even when packaging later fails.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	res, status, errMsg := j.snapshot()
	switch status {
	case StatusProcessing:
		writeError(w, http.StatusConflict, "job still processing")
	case StatusFailed:
		writeError(w, http.StatusUnprocessableEntity, errMsg)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	pkg, ok := s.preparePackage(w, r)
	if !ok {
		return
	}
	serveBlob(w, pkg.WorkbookName, xlsxContentType, pkg.Workbook)
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := s.preparePackage(w, r)
	if !ok {
		return
	}
	serveBlob(w, pkg.ArchiveName, "application/zip", pkg.Archive)
}

// preparePackage resolves the job and lazily builds its download
// bundle. A packaging failure is cached and reported on every download
// attempt while the job itself stays ready.
func (s *Server) preparePackage(w http.ResponseWriter, r *http.Request) (*taskmill.Package, bool) {
	j, ok := s.jobs.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return nil, false
	}
	_, status, errMsg := j.snapshot()
	switch status {
	case StatusProcessing:
		writeError(w, http.StatusConflict, "job still processing")
		return nil, false
	case StatusFailed:
		writeError(w, http.StatusUnprocessableEntity, errMsg)
		return nil, false
	}
	pkg, err := j.ensurePackage()
	if err != nil {
		slog.Error("packaging failed", "job_id", j.id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create download files")
		return nil, false
	}
	return pkg, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// looksLikeWordDocument accepts the Word MIME types outright and falls
// back to the .docx extension plus the zip container signature when
// the client sent a generic content type.
func looksLikeWordDocument(contentType, filename string, data []byte) bool {
	switch contentType {
	case wordContentType, "application/msword":
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".docx") && bytes.HasPrefix(data, zipMagic)
}

func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return 0
	}
	return n
}

func serveBlob(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
