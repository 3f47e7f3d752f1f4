// Package diagram captures annotated diagram/UI-mockup payloads through a
// short-lived localhost HTTP listener: serve the editor page, wait for one
// POST, shut down.
package diagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	portRangeStart = 8765
	portRangeEnd   = 8864

	// DefaultTimeout bounds how long Capture waits for a submission.
	DefaultTimeout = 60 * time.Second
)

// fallbackPage is served when no editor HTML file is configured. It posts
// whatever is typed into the textarea back to /submit.
const fallbackPage = `<!doctype html>
<html>
<head><title>NapkinWire Diagram</title></head>
<body>
<h1>NapkinWire diagram capture</h1>
<textarea id="payload" rows="20" cols="80" placeholder="Paste or draw your diagram JSON here"></textarea>
<br><button onclick="submitDiagram()">Submit</button>
<script>
async function submitDiagram() {
  const body = document.getElementById('payload').value;
  await fetch('/submit', {method: 'POST', headers: {'Content-Type': 'application/json'}, body});
  document.body.innerHTML = '<p>Submitted. You can close this tab.</p>';
}
</script>
</body>
</html>`

// Options configure one capture session.
type Options struct {
	// HTMLPath points at the editor page; the embedded fallback is used
	// when empty or unreadable.
	HTMLPath string
	// Timeout for the whole session; DefaultTimeout when zero.
	Timeout time.Duration
}

// Capture runs one capture session and returns the submitted payload.
// The listener binds the first free port in 8765-8864, serves the editor
// page, and resolves on the first POST /submit, timeout, or ctx cancellation.
type Capture struct {
	URL     string          `json:"url"`
	Port    int             `json:"port"`
	Payload json.RawMessage `json:"payload"`
}

// ErrTimeout is returned when no submission arrived in time.
var ErrTimeout = errors.New("diagram capture timed out waiting for submission")

// Run starts the session and blocks until a payload arrives or the session
// ends without one.
func Run(ctx context.Context, opts Options) (Capture, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	listener, port, err := listenFreePort()
	if err != nil {
		return Capture{}, err
	}

	page := fallbackPage
	if opts.HTMLPath != "" {
		if data, err := os.ReadFile(opts.HTMLPath); err == nil {
			page = string(data)
		} else {
			log.Printf("diagram level=warn event=html_fallback path=%s error=%v", opts.HTMLPath, err)
		}
	}

	submissions := make(chan json.RawMessage, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			var payload json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("decode payload: %v", err))
				return
			}
			select {
			case submissions <- payload:
			default:
				// A submission already landed; this one is dropped.
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		default:
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("diagram level=warn event=server_error error=%v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://localhost:%d/", port)
	log.Printf("diagram level=info event=capture_started url=%s timeout=%s", url, timeout)

	select {
	case payload := <-submissions:
		log.Printf("diagram level=info event=capture_received bytes=%d", len(payload))
		return Capture{URL: url, Port: port, Payload: payload}, nil
	case <-time.After(timeout):
		return Capture{URL: url, Port: port}, ErrTimeout
	case <-ctx.Done():
		return Capture{URL: url, Port: port}, ctx.Err()
	}
}

func listenFreePort() (net.Listener, int, error) {
	for port := portRangeStart; port <= portRangeEnd; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return listener, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d", portRangeStart, portRangeEnd)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
