package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sampleComponent struct {
	name  string
	state any
}

func (c *sampleComponent) Name() string {
	return c.name
}

func (c *sampleComponent) State() any {
	return c.state
}

var _ = Describe("Monitor", func() {
	var m *Monitor

	BeforeEach(func() {
		m = NewMonitor()
		m.RegisterComponent(&sampleComponent{
			name:  "Buf",
			state: map[string]any{"Len": 4},
		})
		m.RegisterComponent(&sampleComponent{
			name:  "Timer",
			state: map[string]any{"Ticks": 3},
		})
	})

	It("should list registered components", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/list_components", nil)

		m.router().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(200))

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Buf", "Timer"}))
	})

	It("should report the state of one component", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/component/Timer", nil)

		m.router().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(200))

		var state map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &state)).To(Succeed())
		Expect(state).To(HaveKeyWithValue("Ticks", float64(3)))
	})

	It("should 404 on an unknown component", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/component/Nope", nil)

		m.router().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(404))
	})

	It("should report process resources", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/resource", nil)

		m.router().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(200))

		var report resourceReport
		Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})
})
