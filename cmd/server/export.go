package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/Simplici0/sellsheet/internal/export"
	"github.com/Simplici0/sellsheet/internal/metrics"
	"github.com/Simplici0/sellsheet/internal/snapshot"
)

type exportFormat struct {
	name        string
	contentType string
	filename    string
	write       func(io.Writer, export.Report) error
}

var (
	formatCSV = exportFormat{
		name:        "csv",
		contentType: "text/csv; charset=utf-8",
		filename:    export.CSVFilename,
		write:       export.WriteCSV,
	}
	formatPDF = exportFormat{
		name:        "pdf",
		contentType: "application/pdf",
		filename:    export.PDFFilename,
		write:       export.WritePDF,
	}
)

func (s *server) handleExportState(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := "server.handleExportState." + format.name
		state, err := s.states.Load(r.Context())
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to load state", op, err)
			return
		}
		s.renderExport(w, format, state, op)
	}
}

func (s *server) handleExportRecipe(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := "server.handleExportRecipe." + format.name
		recipe, ok := s.lookupRecipe(w, r, op)
		if !ok {
			return
		}
		s.renderExport(w, format, recipe.Snapshot, op)
	}
}

// renderExport buffers the document so a render failure can still produce a JSON error.
func (s *server) renderExport(w http.ResponseWriter, format exportFormat, state snapshot.Snapshot, op string) {
	var buf bytes.Buffer
	if err := format.write(&buf, export.NewReport(state, s.now())); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to render export", op, err)
		return
	}

	metrics.ExportsRendered.WithLabelValues(format.name).Inc()

	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
