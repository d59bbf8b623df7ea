package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

type Handler struct {
	Doc Document

	closeOnce sync.Once
	closed    chan struct{}
}

func NewHandler(doc Document) *Handler {
	return &Handler{Doc: doc, closed: make(chan struct{})}
}

// Closed is done once the viewer asked to close.
func (h *Handler) Closed() <-chan struct{} {
	return h.closed
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family:sans-serif">
<h2>{{.Title}}</h2>
<img src="/plot.png" alt="{{.Title}}">
<pre>{{range .Lines}}{{.}}
{{end}}</pre>
<p><a href="/report.pdf">PDF</a> | <a href="/errors.xlsx">Error series (xlsx)</a></p>
<form method="post" action="/api/close"><button type="submit">Close</button></form>
</body></html>`))

func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Page).Methods("GET")
	r.HandleFunc("/plot.png", h.Plot).Methods("GET")
	r.HandleFunc("/report.pdf", h.PDF).Methods("GET")
	r.HandleFunc("/errors.xlsx", h.Workbook).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", h.Summary).Methods("GET")
	api.HandleFunc("/close", h.Close).Methods("POST")
	return r
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title string
		Lines []string
	}{h.Doc.Title, SummaryLines(h.Doc.Result)}
	if err := pageTmpl.Execute(w, data); err != nil {
		slog.Error("render viewer page", slog.String("error", err.Error()))
	}
}

func (h *Handler) Plot(w http.ResponseWriter, r *http.Request) {
	if len(h.Doc.Chart) == 0 {
		http.Error(w, "No chart", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(h.Doc.Chart)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, h.Doc); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, h.Doc.Result); err != nil {
		http.Error(w, "Workbook generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"errors.xlsx\"")
	w.Write(buf.Bytes())
}

type summaryResponse struct {
	Lines     []string `json:"lines"`
	Undefined int      `json:"undefined"`
	Points    int      `json:"points"`
}

// Summary is JSON without the NaN-carrying raw values, which encoding/json rejects.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaryResponse{
		Lines:     SummaryLines(h.Doc.Result),
		Undefined: h.Doc.Result.Undefined,
		Points:    len(h.Doc.Result.Points),
	})
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.closeOnce.Do(func() { close(h.closed) })
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Viewer closed"))
}

// Serve shows the document on addr and blocks until the viewer is closed or ctx
// is cancelled. The viewer URL is written to out whatever the log level.
func Serve(ctx context.Context, addr string, doc Document, out io.Writer) error {
	h := NewHandler(doc)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	url := "http://" + ln.Addr().String() + "/"
	fmt.Fprintf(out, "Viewer: %s (close it to finish)\n", url)
	slog.Debug("viewer listening", slog.String("url", url))

	select {
	case <-ctx.Done():
	case <-h.Closed():
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
