package registry

import (
	"net"
	"testing"
	"time"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/railnetwork"
)

func dialLoco(t *testing.T, r *Registry, id protocol.LocoId) net.Conn {
	t.Helper()
	server, client := net.Pipe()

	installErr := make(chan error, 1)
	go func() {
		installErr <- r.InstallLoco(server)
	}()

	if err := protocol.WriteFrame(client, protocol.OpConnect, protocol.ConnectPayload{LocoId: id}.Encode()); err != nil {
		t.Fatalf("WriteFrame(Connect): %s", err)
	}
	if err := <-installErr; err != nil {
		t.Fatalf("InstallLoco: %s", err)
	}
	return client
}

func TestControlLocoNotConnectedByDefault(t *testing.T) {
	r := New()
	err := r.ControlLoco(protocol.Loco1, protocol.Forward, protocol.SpeedStop)
	if _, ok := err.(LocoNotConnectedError); !ok {
		t.Fatalf("got %v, want LocoNotConnectedError", err)
	}
}

func TestControlLocoWritesFrame(t *testing.T) {
	r := New()
	client := dialLoco(t, r, protocol.Loco1)
	defer client.Close()

	go func() {
		_ = r.ControlLoco(protocol.Loco1, protocol.Forward, protocol.SpeedNormal)
	}()

	header, err := protocol.DecodeHeader(client)
	if err != nil {
		t.Fatalf("DecodeHeader: %s", err)
	}
	if header.Operation != protocol.OpControlLoco {
		t.Fatalf("got operation %s, want ControlLoco", header.Operation)
	}
	payload, err := protocol.DecodeControlLocoPayload(client)
	if err != nil {
		t.Fatalf("DecodeControlLocoPayload: %s", err)
	}
	if payload.Direction != protocol.Forward || payload.Speed != protocol.SpeedNormal {
		t.Errorf("got %+v, want Forward/Normal", payload)
	}
}

// LocoStatus must write its request and then read the reply under the same
// lock, so a concurrent caller sees a serialized, not interleaved, exchange.
func TestLocoStatusRoundTrip(t *testing.T) {
	r := New()
	client := dialLoco(t, r, protocol.Loco2)
	defer client.Close()

	done := make(chan struct {
		status LocoStatus
		err    error
	}, 1)
	go func() {
		st, err := r.LocoStatus(protocol.Loco2)
		done <- struct {
			status LocoStatus
			err    error
		}{st, err}
	}()

	header, err := protocol.DecodeHeader(client)
	if err != nil {
		t.Fatalf("DecodeHeader: %s", err)
	}
	if header.Operation != protocol.OpLocoStatus {
		t.Fatalf("got operation %s, want LocoStatus", header.Operation)
	}
	resp, err := protocol.LocoStatusResponse{Direction: protocol.Backward, Speed: protocol.SpeedSlow}.Encode()
	if err != nil {
		t.Fatalf("encode response: %s", err)
	}
	if _, err := client.Write(resp); err != nil {
		t.Fatalf("write response: %s", err)
	}

	select {
	case result := <-done:
		if result.err != nil {
			t.Fatalf("LocoStatus: %s", result.err)
		}
		if result.status.Direction != protocol.Backward || result.status.Speed != protocol.SpeedSlow {
			t.Errorf("got %+v, want Backward/Slow", result.status)
		}
	case <-time.After(time.Second):
		t.Fatal("LocoStatus did not return")
	}
}

func TestServeSensorsUpdatesLocation(t *testing.T) {
	r := New()
	server, client := net.Pipe()
	defer client.Close()

	serveErr := make(chan error, 1)
	go func() { serveErr <- r.ServeSensors(server) }()

	payload := protocol.SensorsStatusPayload{Records: []protocol.SensorStatusRecord{
		{SensorId: protocol.RfidReader7, LocoId: protocol.Loco1},
	}}
	if err := protocol.WriteFrame(client, protocol.OpSensorsStatus, payload.Encode()); err != nil {
		t.Fatalf("WriteFrame(SensorsStatus): %s", err)
	}

	deadline := time.After(time.Second)
	for {
		if loc := r.Location(protocol.Loco1); loc != nil && *loc == railnetwork.Station1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("location was never updated to Station1")
		case <-time.After(time.Millisecond):
		}
	}

	client.Close()
	if err := <-serveErr; err == nil {
		t.Fatal("expected ServeSensors to return an error once the pipe closed")
	}
}

func TestDriveActuatorNotConnectedByDefault(t *testing.T) {
	r := New()
	err := r.DriveActuator(protocol.SwitchRails1, protocol.ActuatorTypeSwitchRails, 1)
	if _, ok := err.(ActuatorsNotConnectedError); !ok {
		t.Fatalf("got %v, want ActuatorsNotConnectedError", err)
	}
}

func TestDriveActuatorWritesFrame(t *testing.T) {
	r := New()
	server, client := net.Pipe()
	defer client.Close()
	r.InstallActuators(server)

	go func() {
		_ = r.DriveActuator(protocol.SwitchRails2, protocol.ActuatorTypeSwitchRails, 1)
	}()

	payload, err := readDriveActuatorFrame(client)
	if err != nil {
		t.Fatalf("readDriveActuatorFrame: %s", err)
	}
	if payload.ActuatorId != protocol.SwitchRails2 || payload.ActuatorState != 1 {
		t.Errorf("got %+v, want SwitchRails2/1", payload)
	}
}

func readDriveActuatorFrame(r net.Conn) (protocol.DriveActuatorPayload, error) {
	header, err := protocol.DecodeHeader(r)
	if err != nil {
		return protocol.DriveActuatorPayload{}, err
	}
	if header.Operation != protocol.OpDriveActuator {
		return protocol.DriveActuatorPayload{}, protocol.UnsupportedOperationError{Op: header.Operation}
	}
	return protocol.DecodeDriveActuatorPayload(r)
}

// A locomotive that reconnects (a new InstallLoco swaps in a new conn for
// the same LocoId) must keep its previously observed location and intent —
// only the transport handle is replaced.
func TestReconnectPreservesLocationAndIntent(t *testing.T) {
	r := New()
	first := dialLoco(t, r, protocol.Loco1)
	defer first.Close()

	r.SetIntent(protocol.Loco1, StopIntent(protocol.Forward, railnetwork.Checkpoint3))

	server, client := net.Pipe()
	defer client.Close()
	serveErr := make(chan error, 1)
	go func() { serveErr <- r.ServeSensors(server) }()
	payload := protocol.SensorsStatusPayload{Records: []protocol.SensorStatusRecord{
		{SensorId: protocol.RfidReader3, LocoId: protocol.Loco1},
	}}
	if err := protocol.WriteFrame(client, protocol.OpSensorsStatus, payload.Encode()); err != nil {
		t.Fatalf("WriteFrame(SensorsStatus): %s", err)
	}
	deadline := time.After(time.Second)
	for {
		if loc := r.Location(protocol.Loco1); loc != nil && *loc == railnetwork.Checkpoint3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("location was never updated to Checkpoint3")
		case <-time.After(time.Millisecond):
		}
	}

	second := dialLoco(t, r, protocol.Loco1)
	defer second.Close()

	if !r.Connected(protocol.Loco1) {
		t.Fatal("expected loco to be connected after reconnect")
	}
	if loc := r.Location(protocol.Loco1); loc == nil || *loc != railnetwork.Checkpoint3 {
		t.Errorf("got location %v, want Checkpoint3 to survive reconnect", loc)
	}
	intent := r.Intent(protocol.Loco1)
	if intent == nil || intent.Kind != IntentStop || intent.CheckpointId != railnetwork.Checkpoint3 {
		t.Errorf("got intent %+v, want the stop intent to survive reconnect", intent)
	}

	go func() {
		_ = r.ControlLoco(protocol.Loco1, protocol.Forward, protocol.SpeedNormal)
	}()
	header, err := protocol.DecodeHeader(second)
	if err != nil {
		t.Fatalf("DecodeHeader on new conn: %s", err)
	}
	if header.Operation != protocol.OpControlLoco {
		t.Fatalf("got operation %s, want ControlLoco on the new conn", header.Operation)
	}
}

func TestSetIntentAndOracleMode(t *testing.T) {
	r := New()
	if r.OracleEnabled() {
		t.Fatal("expected oracle disabled by default")
	}
	r.SetOracleMode(true)
	if !r.OracleEnabled() {
		t.Fatal("expected oracle enabled after SetOracleMode(true)")
	}

	r.SetIntent(protocol.Loco1, StopIntent(protocol.Forward, railnetwork.Checkpoint3))
	intent := r.Intent(protocol.Loco1)
	if intent == nil || intent.Kind != IntentStop || intent.CheckpointId != railnetwork.Checkpoint3 {
		t.Errorf("got %+v, want a stop intent at Checkpoint3", intent)
	}
}
