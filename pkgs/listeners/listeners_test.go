package listeners

import (
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/registry"
)

const (
	testLocosPort     = 18004
	testSensorsPort   = 18005
	testActuatorsPort = 18006
	testPanicPort     = 18007
)

func TestServeInstallsLocoSession(t *testing.T) {
	reg := registry.New()
	errc := make(chan error, 1)
	go func() {
		errc <- Serve(reg, Ports{Locos: testLocosPort, Sensors: testSensorsPort, Actuators: testActuatorsPort})
	}()
	waitForListener(t, testLocosPort)

	conn, err := net.Dial("tcp", fmtAddr(testLocosPort))
	if err != nil {
		t.Fatalf("Dial: %s", err)
	}
	defer conn.Close()

	if err := protocol.WriteFrame(conn, protocol.OpConnect, protocol.ConnectPayload{LocoId: protocol.Loco1}.Encode()); err != nil {
		t.Fatalf("WriteFrame: %s", err)
	}

	deadline := time.After(time.Second)
	for !reg.Connected(protocol.Loco1) {
		select {
		case <-deadline:
			t.Fatal("loco session was never installed")
		case <-time.After(time.Millisecond):
		}
	}
}

// S8-equivalent: a handler that panics mid-connection must not bring down
// the acceptor — the panics.Catcher wrapper contains it and subsequent
// connections keep being served.
func TestAcceptLoopSurvivesHandlerPanic(t *testing.T) {
	errc := make(chan error, 1)
	var handled int32
	go acceptLoop(errc, testPanicPort, "panic-test", func(conn net.Conn) {
		defer conn.Close()
		if atomic.AddInt32(&handled, 1) == 1 {
			panic("simulated handler fault")
		}
	})
	waitForListener(t, testPanicPort)

	first, err := net.Dial("tcp", fmtAddr(testPanicPort))
	if err != nil {
		t.Fatalf("Dial: %s", err)
	}
	first.Close()

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&handled) < 1 {
		select {
		case <-deadline:
			t.Fatal("first connection was never handled")
		case <-time.After(time.Millisecond):
		}
	}

	second, err := net.Dial("tcp", fmtAddr(testPanicPort))
	if err != nil {
		t.Fatalf("Dial after handler panic: %s", err)
	}
	defer second.Close()

	deadline = time.After(time.Second)
	for atomic.LoadInt32(&handled) < 2 {
		select {
		case <-deadline:
			t.Fatal("accept loop stopped serving after handler panic")
		case <-time.After(time.Millisecond):
		}
	}

	select {
	case err := <-errc:
		t.Fatalf("acceptLoop exited unexpectedly: %s", err)
	default:
	}
}

func waitForListener(t *testing.T, port int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", fmtAddr(port), 10*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("listener on port %d never came up", port)
}

func fmtAddr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}
