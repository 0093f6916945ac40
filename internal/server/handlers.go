package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"fishtrack/domain/interval"
	apperrors "fishtrack/internal/errors"
	"fishtrack/internal/pipeline"
)

func encodeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(data)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>fishtrack</title></head>
<body>
<h1>fishtrack</h1>
<ul>
<li>GET /add &mdash; upload form</li>
<li>POST /add (multipart "file") &mdash; ingest a detection CSV</li>
<li>GET /intervals?transmitter=&lt;id&gt; &mdash; query stored intervals</li>
</ul>
</body>
</html>`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexHTML))
}

const addFormHTML = `<!DOCTYPE html>
<html>
<head><title>fishtrack &mdash; add</title></head>
<body>
<form method="POST" action="/add" enctype="multipart/form-data">
<input type="file" name="file" accept=".csv,.tsv">
<button type="submit">Upload</button>
</form>
</body>
</html>`

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(addFormHTML))
}

type intervalResponse struct {
	TransmitterID string `json:"transmitter_id"`
	StationName   string `json:"station_name"`
	Start         string `json:"start"`
	Stop          string `json:"stop"`
}

func toResponse(iv interval.Interval) intervalResponse {
	return intervalResponse{
		TransmitterID: iv.TransmitterID,
		StationName:   iv.StationName,
		Start:         strconv.FormatInt(iv.Start.Unix(), 10),
		Stop:          strconv.FormatInt(iv.Stop.Unix(), 10),
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.app.Config.Server.UploadLimit); err != nil {
		s.renderJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderJSON(w, http.StatusBadRequest, map[string]string{"error": "missing \"file\" field"})
		return
	}
	defer file.Close()

	ctx := r.Context()

	stagedPath, err := s.app.Uploads.Stage(ctx, file, header.Filename)
	if err != nil {
		s.renderJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer s.app.Uploads.Remove(ctx, stagedPath)

	staged, err := s.app.Uploads.Open(ctx, stagedPath)
	if err != nil {
		s.renderJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer staged.Close()

	detections, err := pipeline.ProcessFile(ctx, s.app.Tokeniser, s.app.Mapping, staged)
	if err != nil {
		s.renderJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	result, err := s.app.Coordinator.Run(ctx, detections)
	if err != nil {
		s.renderJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	responses := make([]intervalResponse, 0, len(result.Intervals))
	for _, iv := range result.Intervals {
		responses = append(responses, toResponse(iv))
	}

	body := map[string]interface{}{"intervals": responses}
	if len(result.Failures) > 0 {
		messages := make([]string, 0, len(result.Failures))
		for _, failure := range result.Failures {
			messages = append(messages, failure.Error())
		}
		body["failures"] = messages
	}

	s.renderJSON(w, http.StatusOK, body)
}

func (s *Server) handleIntervals(w http.ResponseWriter, r *http.Request) {
	transmitterID := r.URL.Query().Get("transmitter")
	if transmitterID == "" {
		s.renderJSON(w, http.StatusBadRequest, map[string]string{"error": "missing \"transmitter\" query parameter"})
		return
	}

	rows, err := s.app.Store.Query(r.Context(), transmitterID)
	if err != nil {
		s.renderJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	type isoInterval struct {
		StationName string `json:"station_name"`
		Start       string `json:"start"`
		Stop        string `json:"stop"`
	}

	out := make([]isoInterval, 0, len(rows))
	for _, row := range rows {
		iv, err := interval.FromPersisted(row)
		if err != nil {
			s.renderJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		out = append(out, isoInterval{
			StationName: iv.StationName,
			Start:       iv.Start.Format("2006-01-02T15:04:05"),
			Stop:        iv.Stop.Format("2006-01-02T15:04:05"),
		})
	}

	s.renderJSON(w, http.StatusOK, map[string]interface{}{
		"transmitter_id": transmitterID,
		"intervals":      out,
	})
}

func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeUnknownFormat, apperrors.CodeBadDateTime, apperrors.CodeBadStationName, apperrors.CodeBadStationMapping:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
