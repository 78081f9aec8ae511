package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/berrythewa/clipqr/internal/app"
	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/events"
	"github.com/berrythewa/clipqr/internal/panel"
	"github.com/berrythewa/clipqr/internal/qr"
	"github.com/berrythewa/clipqr/internal/types"
)

type errorResponse struct {
	Code    cqerrors.Kind `json:"code"`
	Message string        `json:"message"`
}

type qrResponse struct {
	Payload string `json:"payload"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Modules int    `json:"modules,omitempty"`
	Text    string `json:"text,omitempty"`
}

type panelResponse struct {
	State        string `json:"state"`
	Tracking     bool   `json:"tracking"`
	DragOccurred bool   `json:"dragOccurred"`
}

type stateResponse struct {
	app.State
	QR    qrResponse    `json:"qr"`
	Panel panelResponse `json:"panel"`
}

type ingestItem struct {
	Kind string `json:"kind"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
	// Data is the base64 content of a file item
	Data string `json:"data,omitempty"`
}

type ingestRequest struct {
	Event string       `json:"event"`
	Items []ingestItem `json:"items"`
}

type inputRequest struct {
	Text string `json:"text"`
}

type fileResult struct {
	Name  string         `json:"name"`
	OK    bool           `json:"ok"`
	Error *errorResponse `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := cqerrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, toErrorResponse(err))
}

func toErrorResponse(err error) *errorResponse {
	var e *cqerrors.Error
	if errors.As(err, &e) {
		return &errorResponse{Code: e.Kind, Message: e.Message}
	}
	return &errorResponse{Code: cqerrors.ErrInternal, Message: err.Error()}
}

func toQRResponse(res qr.Result) qrResponse {
	out := qrResponse{Payload: res.Payload, OK: res.OK, Message: res.Message}
	if res.Symbol != nil {
		out.Modules = res.Symbol.Modules
		out.Text = res.Symbol.Text
	}
	return out
}

func toPanelResponse(snap panel.Snapshot) panelResponse {
	return panelResponse{
		State:        snap.State.String(),
		Tracking:     snap.Tracking,
		DragOccurred: snap.DragOccurred,
	}
}

func (s *Server) writeState(w http.ResponseWriter) {
	st := s.app.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		State: st,
		QR:    toQRResponse(st.QR),
		Panel: toPanelResponse(st.Panel),
	})
}

// handleHealth reports "degraded" while history cannot be persisted. The
// service keeps working from memory, so the status code stays 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if err := s.app.Store().PersistErr(); err != nil {
		resp["status"] = "degraded"
		resp["storage"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

// handleIngest accepts a paste or drop, either as JSON items or as a
// multipart form whose files become file items and whose fields, keyed by
// media type, become string items.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var (
		name  = events.Paste
		items []types.Item
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxMemory); err != nil {
			s.writeError(w, cqerrors.NewInvalidRequest("malformed multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()
		name = events.Drop
		if ev := r.FormValue("event"); ev != "" {
			name = ev
		}
		keys := make([]string, 0, len(r.MultipartForm.Value))
		for key := range r.MultipartForm.Value {
			if key != "event" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, v := range r.MultipartForm.Value[key] {
				items = append(items, types.StringItem(key, v))
			}
		}
		for _, f := range multipartFiles(r.MultipartForm) {
			items = append(items, types.FileItem(f))
		}
	default:
		limit := s.maxJSONBody()
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, cqerrors.NewOversizedInput("request body", tooLarge.Limit+1, tooLarge.Limit))
				return
			}
			s.writeError(w, cqerrors.NewInvalidRequest("malformed JSON body"))
			return
		}
		if req.Event != "" {
			name = req.Event
		}
		for _, it := range req.Items {
			item, err := it.toItem()
			if err != nil {
				s.writeError(w, err)
				return
			}
			items = append(items, item)
		}
	}

	if name != events.Paste && name != events.Drop {
		s.writeError(w, cqerrors.NewInvalidRequest("event must be paste or drop"))
		return
	}
	if err := s.dispatcher.Dispatch(r.Context(), events.Event{Name: name, Items: items}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w)
}

// maxJSONBody bounds a JSON ingest body: one file at the ceiling, base64
// encoded, plus the envelope.
func (s *Server) maxJSONBody() int64 {
	return s.app.MaxFileSize()/3*4 + 4 + jsonEnvelope
}

func (it ingestItem) toItem() (types.Item, error) {
	switch types.ItemKind(it.Kind) {
	case types.KindString, "":
		return types.StringItem(it.Type, it.Text), nil
	case types.KindFile:
		data, err := base64.StdEncoding.DecodeString(it.Data)
		if err != nil {
			return types.Item{}, cqerrors.NewInvalidRequest("file data must be base64")
		}
		return types.FileItem(types.FileFromBytes(it.Name, it.Type, data)), nil
	default:
		return types.Item{}, cqerrors.NewInvalidRequest("unknown item kind " + strconv.Quote(it.Kind))
	}
}

// handleFiles is the file picker: every uploaded part is processed on its
// own and reported in the response. A single failing file is reported with
// its error status.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxMemory); err != nil {
		s.writeError(w, cqerrors.NewInvalidRequest("malformed multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := multipartFiles(r.MultipartForm)
	if len(files) == 0 {
		s.writeError(w, cqerrors.NewInvalidRequest("no files in request"))
		return
	}

	results := make([]fileResult, 0, len(files))
	for _, f := range files {
		err := s.app.ProcessFile(r.Context(), f)
		if err != nil && len(files) == 1 {
			s.writeError(w, err)
			return
		}
		res := fileResult{Name: f.Name, OK: err == nil}
		if err != nil {
			res.Error = toErrorResponse(err)
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": results})
}

func multipartFiles(form *multipart.Form) []*types.File {
	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var files []*types.File
	for _, key := range keys {
		for _, fh := range form.File[key] {
			fh := fh
			mediaType := fh.Header.Get("Content-Type")
			if mediaType == "application/octet-stream" {
				mediaType = ""
			}
			files = append(files, &types.File{
				Name: fh.Filename,
				Type: mediaType,
				Size: fh.Size,
				Open: func() (io.ReadCloser, error) {
					f, err := fh.Open()
					if err != nil {
						return nil, err
					}
					return f, nil
				},
			})
		}
	}
	return files
}

func (s *Server) handleInputChange(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, cqerrors.NewInvalidRequest("malformed JSON body"))
		return
	}
	if err := s.dispatcher.Dispatch(r.Context(), events.Event{Name: events.InputChange, Text: req.Text}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w)
}

func (s *Server) handleInputConfirm(w http.ResponseWriter, r *http.Request) {
	s.dispatchAndWriteState(w, r, events.Event{Name: events.InputConfirm})
}

func (s *Server) handleInputClear(w http.ResponseWriter, r *http.Request) {
	s.dispatchAndWriteState(w, r, events.Event{Name: events.InputClear})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Store().Render())
}

func (s *Server) handleHistorySelect(w http.ResponseWriter, r *http.Request) {
	s.dispatchAndWriteState(w, r, events.Event{Name: events.HistorySelect, ID: mux.Vars(r)["id"]})
}

func (s *Server) handleHistoryRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.dispatcher.Dispatch(r.Context(), events.Event{Name: events.HistoryRemove, ID: mux.Vars(r)["id"]}); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQR returns the current symbol, or encodes ?data= without touching
// any state. ?format= picks svg (default), text or json.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var res qr.Result
	if q.Has("data") {
		res = s.app.Emitter().Emit(q.Get("data"))
	} else {
		res = s.app.Snapshot().QR
	}

	if !res.OK {
		if res.Err == nil {
			s.writeError(w, cqerrors.NewInvalidRequest("nothing to encode"))
			return
		}
		writeJSON(w, cqerrors.StatusOf(res.Err), &errorResponse{
			Code:    cqerrors.KindOf(res.Err),
			Message: res.Message,
		})
		return
	}

	switch q.Get("format") {
	case "", "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, res.Symbol.SVG)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, res.Symbol.Text)
	case "json":
		writeJSON(w, http.StatusOK, toQRResponse(res))
	default:
		s.writeError(w, cqerrors.NewInvalidRequest("format must be svg, text or json"))
	}
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPanelResponse(s.app.Panel().Snapshot()))
}

// handlePanelGesture maps /panel/{gesture} onto the panel.* events. Pointer
// gestures take the vertical coordinate from ?y=; a pointer_up whose trailing
// tap will follow passes ?on_handle=true.
func (s *Server) handlePanelGesture(w http.ResponseWriter, r *http.Request) {
	ev := events.Event{Name: "panel." + mux.Vars(r)["gesture"]}
	if raw := r.URL.Query().Get("y"); raw != "" {
		y, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, cqerrors.NewInvalidRequest("y must be a number"))
			return
		}
		ev.Y = y
	}
	if raw := r.URL.Query().Get("on_handle"); raw != "" {
		onHandle, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, cqerrors.NewInvalidRequest("on_handle must be a boolean"))
			return
		}
		ev.OnHandle = onHandle
	}
	if err := s.dispatcher.Dispatch(r.Context(), ev); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPanelResponse(s.app.Panel().Snapshot()))
}

func (s *Server) dispatchAndWriteState(w http.ResponseWriter, r *http.Request, ev events.Event) {
	if err := s.dispatcher.Dispatch(r.Context(), ev); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w)
}
