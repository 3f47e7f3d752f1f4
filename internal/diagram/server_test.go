package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestRun_CapturesSubmission(t *testing.T) {
	type result struct {
		capture Capture
		err     error
	}
	done := make(chan result, 1)

	go func() {
		capture, err := Run(context.Background(), Options{Timeout: 10 * time.Second})
		done <- result{capture, err}
	}()

	// Poll until the listener is up, then submit a payload.
	payload := []byte(`{"kind":"flowchart","nodes":3}`)
	deadline := time.Now().Add(5 * time.Second)
	var submitted bool
	for time.Now().Before(deadline) && !submitted {
		for port := portRangeStart; port <= portRangeEnd; port++ {
			url := fmt.Sprintf("http://localhost:%d/submit", port)
			resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
			if err != nil {
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				submitted = true
			}
			break
		}
		if !submitted {
			time.Sleep(50 * time.Millisecond)
		}
	}
	if !submitted {
		t.Fatal("could not submit payload to the capture server")
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Run() error: %v", r.err)
		}
		if string(r.capture.Payload) != string(payload) {
			t.Errorf("payload = %s, want %s", r.capture.Payload, payload)
		}
		if !strings.HasPrefix(r.capture.URL, "http://localhost:") {
			t.Errorf("url = %s", r.capture.URL)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after submission")
	}
}

func TestRun_Timeout(t *testing.T) {
	_, err := Run(context.Background(), Options{Timeout: 100 * time.Millisecond})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Timeout: 10 * time.Second})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
