// Package dutemu emulates the demo firmware's web server and serial console
// so the harness can be exercised without hardware attached. Response bodies
// are byte-faithful to the device's HTTP handlers.
package dutemu

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cornelk/hashmap"
)

// rootPageTemplate mirrors the page the firmware renders, with the LED state
// and stored string substituted in.
const rootPageTemplate = `<!DOCTYPE html>
<html>
<head><title>ESP32 Control</title></head>
<body>
<h1>ESP32 LED and String Control</h1>
<p>LED is currently: %s</p>
<p>
  <a href="/led?state=on">Turn LED ON</a><br>
  <a href="/led?state=off">Turn LED OFF</a>
</p>
<p>Stored string: '%s'</p>
<p>
  <form method="POST" action="/string">
    New string: <input type="text" name="value">
    <input type="submit" value="Save">
  </form>
</p>
<p>
  <form method="POST" action="/string?delete=1">
    <input type="submit" value="Delete string">
  </form>
</p>
</body>
</html>
`

// maxStoredStringLen matches the firmware's receive buffer; longer POST
// bodies are rejected with 400.
const maxStoredStringLen = 63

// Emulator holds the mutable device state and serves the firmware's HTTP
// surface: "/", "/led" and "/string", plus a "/health" endpoint the real
// device does not have.
type Emulator struct {
	mu     sync.Mutex
	ledOn  bool
	stored string

	hits *hashmap.Map[string, *atomic.Int64]
	mux  *http.ServeMux
}

// New creates an emulator with the LED off and no stored string.
func New() *Emulator {
	e := &Emulator{
		hits: hashmap.New[string, *atomic.Int64](),
		mux:  http.NewServeMux(),
	}

	e.mux.HandleFunc("/", e.handleRoot)
	e.mux.HandleFunc("/led", e.handleLED)
	e.mux.HandleFunc("/string", e.handleString)
	e.mux.HandleFunc("/health", e.handleHealth)

	return e
}

// ServeHTTP implements http.Handler.
func (e *Emulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.countHit(r.URL.Path)
	e.mux.ServeHTTP(w, r)
}

// LEDOn reports the current LED state.
func (e *Emulator) LEDOn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledOn
}

// StoredString returns the current stored string, "" when empty.
func (e *Emulator) StoredString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stored
}

// Hits returns how many requests the given path has received.
func (e *Emulator) Hits(path string) int64 {
	if counter, ok := e.hits.Get(path); ok {
		return counter.Load()
	}
	return 0
}

// countHit increments the per-path request counter. Handlers run on
// concurrent server goroutines, hence the lock-free map.
func (e *Emulator) countHit(path string) {
	counter, _ := e.hits.GetOrInsert(path, &atomic.Int64{})
	counter.Add(1)
}

func sendText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, text)
}

func (e *Emulator) handleRoot(w http.ResponseWriter, r *http.Request) {
	// ServeMux routes every unregistered path here, the firmware only
	// registers "/".
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	e.mu.Lock()
	led := "OFF"
	if e.ledOn {
		led = "ON"
	}
	stored := e.stored
	e.mu.Unlock()

	if stored == "" {
		stored = "(empty)"
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, rootPageTemplate, led, stored)
}

func (e *Emulator) handleLED(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("state") {
	case "on":
		e.mu.Lock()
		e.ledOn = true
		e.mu.Unlock()
		sendText(w, "LED turned ON\n")
	case "off":
		e.mu.Lock()
		e.ledOn = false
		e.mu.Unlock()
		sendText(w, "LED turned OFF\n")
	default:
		sendText(w, "Use /led?state=on or /led?state=off\n")
	}
}

func (e *Emulator) handleString(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		e.mu.Lock()
		stored := e.stored
		e.mu.Unlock()
		if stored == "" {
			sendText(w, "(empty)\n")
			return
		}
		sendText(w, stored)

	case http.MethodPost:
		// The firmware also accepts POST /string?delete=1 from the root
		// page's delete form.
		if r.URL.Query().Get("delete") == "1" {
			e.deleteString()
			sendText(w, "String deleted\n")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusInternalServerError)
			return
		}
		if len(body) > maxStoredStringLen {
			http.Error(w, "String too long", http.StatusBadRequest)
			return
		}

		// The firmware strips a leading "value=" and stores the rest as-is,
		// without URL decoding.
		value := strings.TrimPrefix(string(body), "value=")
		e.mu.Lock()
		e.stored = value
		e.mu.Unlock()
		sendText(w, "String saved\n")

	case http.MethodDelete:
		e.deleteString()
		sendText(w, "String deleted\n")

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (e *Emulator) deleteString() {
	e.mu.Lock()
	e.stored = ""
	e.mu.Unlock()
}

// healthResponse is the emulator's own status report, not part of the
// firmware surface.
type healthResponse struct {
	Status string           `json:"status"`
	LED    string           `json:"led"`
	Stored string           `json:"stored_string"`
	Hits   map[string]int64 `json:"hits"`
}

func (e *Emulator) handleHealth(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	led := "off"
	if e.ledOn {
		led = "on"
	}
	stored := e.stored
	e.mu.Unlock()

	hits := make(map[string]int64)
	e.hits.Range(func(path string, counter *atomic.Int64) bool {
		hits[path] = counter.Load()
		return true
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status: "ok",
		LED:    led,
		Stored: stored,
		Hits:   hits,
	})
}
