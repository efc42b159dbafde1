package admin

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/calcnet/internal/calc"
	"github.com/danmuck/calcnet/internal/protocol"
	"github.com/danmuck/calcnet/internal/testutil/testlog"
)

func get(t *testing.T, s *Server, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	testlog.Start(t)
	s := New("calc-tcp-server", calc.NewProcessor("tcp"), nil)

	rr := get(t, s, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" || health["service"] != "calc-tcp-server" {
		t.Fatalf("unexpected health body %#v", health)
	}

	if rr := get(t, s, "/ready", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before ready, got %d", rr.Code)
	}
	s.SetReady(true)
	if rr := get(t, s, "/ready", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 once ready, got %d", rr.Code)
	}
}

func TestStatsReflectProcessor(t *testing.T) {
	testlog.Start(t)
	proc := calc.NewProcessor("udp")
	proc.Handle(protocol.Request{Operation: protocol.OpAdd, Num1: 1, Num2: 2})
	proc.Handle(protocol.Request{Operation: protocol.OpDivide, Num1: 1, Num2: 0})
	proc.FrameError()

	rr := get(t, New("calc-udp-server", proc, nil), "/stats", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /stats, got %d", rr.Code)
	}
	var st calc.Stats
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if st.Transport != "udp" || st.Requests != 2 || st.DivisionByZero != 1 || st.FrameErrors != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestMetricsExposeCalculatorSeries(t *testing.T) {
	testlog.Start(t)
	proc := calc.NewProcessor("tcp")
	proc.Handle(protocol.Request{Operation: protocol.OpMultiply, Num1: 2, Num2: 2})

	rr := get(t, New("calc-tcp-server", proc, nil), "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "calcnet_calc_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestCORSOrigins(t *testing.T) {
	testlog.Start(t)
	s := New("calc-tcp-server", calc.NewProcessor("tcp"), []string{"http://localhost:3000"})

	rr := get(t, s, "/health", map[string]string{"Origin": "http://localhost:3000"})
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
	rr = get(t, s, "/health", map[string]string{"Origin": "http://evil.example"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed origin, got %d", rr.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := New("calc-tcp-server", calc.NewProcessor("tcp"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("get /health: %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("admin server did not stop")
	}
}
