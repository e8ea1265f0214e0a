// Package monitoring serves the state of registered components over HTTP so
// a demonstration run can be inspected from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
)

// A Component is anything the monitor can inspect. State must return a value
// that marshals to JSON.
type Component interface {
	Name() string
	State() any
}

// Monitor exposes registered components through a small JSON API.
type Monitor struct {
	portNumber int
	components []Component
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the server listens on. Ports below 1000 are
// rejected and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber > 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server, "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterComponent registers a component to be monitored.
func (m *Monitor) RegisterComponent(c Component) {
	m.components = append(m.components, c)
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.componentState)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

// StartServer starts serving the API and returns the port it listens on.
// Serving continues in the background.
func (m *Monitor) StartServer(openBrowser bool) int {
	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d/api/list_components", port)
	fmt.Fprintf(os.Stderr, "Monitoring the demonstration with %s\n", url)

	if openBrowser {
		// Best effort. Headless runs have no browser to open.
		_ = browser.OpenURL(url)
	}

	go func() {
		err := http.Serve(listener, m.router())
		dieOnErr(err)
	}()

	return port
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) componentState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, c := range m.components {
		if c.Name() == name {
			writeJSON(w, c.State())
			return
		}
	}

	http.Error(w, fmt.Sprintf("component %s not found", name),
		http.StatusNotFound)
}

type resourceReport struct {
	CPUPercent float64
	MemoryRSS  uint64
	MemoryVMS  uint64
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	report := resourceReport{}

	if cpu, err := proc.CPUPercent(); err == nil {
		report.CPUPercent = cpu
	}

	if memInfo, err := proc.MemoryInfo(); err == nil {
		report.MemoryRSS = memInfo.RSS
		report.MemoryVMS = memInfo.VMS
	}

	writeJSON(w, report)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
