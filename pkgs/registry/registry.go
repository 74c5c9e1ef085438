package registry

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/railnetwork"
)

type locoSession struct {
	mu       sync.Mutex
	conn     net.Conn
	location *railnetwork.CheckpointId
	intent   *LocoIntent
}

type actuatorSession struct {
	mu   sync.Mutex
	conn net.Conn
}

// Registry is the process-wide, thread-safe multiplexer of device
// sessions. Entries for every baseline LocoId exist for the whole process
// lifetime; only the session handle, location and intent fields are
// mutable, each under its own lock.
type Registry struct {
	locos         map[protocol.LocoId]*locoSession
	actuators     actuatorSession
	oracleEnabled atomic.Bool
}

// New builds a Registry with an empty session for every baseline LocoId.
func New() *Registry {
	r := &Registry{locos: make(map[protocol.LocoId]*locoSession)}
	for _, id := range protocol.AllLocoIds() {
		r.locos[id] = &locoSession{}
	}
	return r
}

// LocoIds returns every LocoId known to the registry, baseline order.
func (r *Registry) LocoIds() []protocol.LocoId {
	ids := make([]protocol.LocoId, 0, len(r.locos))
	for _, id := range protocol.AllLocoIds() {
		if _, ok := r.locos[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Registry) session(id protocol.LocoId) *locoSession {
	// Safe: every baseline LocoId was seeded in New().
	return r.locos[id]
}

// InstallLoco reads the incoming first frame; it must be Connect. On
// success the decoded locomotive's session transport is replaced,
// discarding any prior handle. Location and intent survive the swap.
func (r *Registry) InstallLoco(conn net.Conn) error {
	header, err := protocol.DecodeHeader(conn)
	if err != nil {
		return err
	}
	if header.Operation != protocol.OpConnect {
		return protocol.UnsupportedOperationError{Op: header.Operation}
	}
	payload, err := protocol.DecodeConnectPayload(conn)
	if err != nil {
		return err
	}

	logrus.Debugf("Registry.InstallLoco: %s connected", payload.LocoId)

	sess := r.session(payload.LocoId)
	sess.mu.Lock()
	sess.conn = conn
	sess.mu.Unlock()
	return nil
}

// InstallActuators replaces the actuator bank's transport handle.
func (r *Registry) InstallActuators(conn net.Conn) {
	logrus.Debug("Registry.InstallActuators: actuator bank connected")
	r.actuators.mu.Lock()
	r.actuators.conn = conn
	r.actuators.mu.Unlock()
}

// ServeSensors loops reading frames from the sensor session, dispatching
// SensorsStatus updates into each reported locomotive's observed location.
// Any other operation is a protocol error and terminates the session.
func (r *Registry) ServeSensors(conn net.Conn) error {
	for {
		header, err := protocol.DecodeHeader(conn)
		if err != nil {
			return err
		}
		if header.Operation != protocol.OpSensorsStatus {
			return protocol.UnsupportedOperationError{Op: header.Operation}
		}
		payload, err := protocol.DecodeSensorsStatusPayload(conn)
		if err != nil {
			return err
		}
		for _, rec := range payload.Records {
			cp, err := railnetwork.CheckpointForSensor(rec.SensorId)
			if err != nil {
				return err
			}
			sess := r.session(rec.LocoId)
			sess.mu.Lock()
			sess.location = &cp
			sess.mu.Unlock()
			logrus.Debugf("Registry.ServeSensors: %s detected at %s", rec.LocoId, cp)
		}
	}
}

// SetIntent stores intent under loco's lock.
func (r *Registry) SetIntent(loco protocol.LocoId, intent LocoIntent) {
	sess := r.session(loco)
	sess.mu.Lock()
	sess.intent = &intent
	sess.mu.Unlock()
}

// Location returns loco's last sensor-reported checkpoint, or nil if it has
// never been observed. It reads the session's own field and does no
// device I/O.
func (r *Registry) Location(loco protocol.LocoId) *railnetwork.CheckpointId {
	sess := r.session(loco)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.location
}

// Intent returns loco's current operator-supplied intent, or nil if none
// was ever set.
func (r *Registry) Intent(loco protocol.LocoId) *LocoIntent {
	sess := r.session(loco)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.intent
}

// Connected reports whether loco currently has an installed transport.
func (r *Registry) Connected(loco protocol.LocoId) bool {
	sess := r.session(loco)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.conn != nil
}

// SetOracleMode writes the atomic oracle_enabled flag.
func (r *Registry) SetOracleMode(enabled bool) {
	r.oracleEnabled.Store(enabled)
}

// OracleEnabled reads the atomic oracle_enabled flag.
func (r *Registry) OracleEnabled() bool {
	return r.oracleEnabled.Load()
}

// ControlLoco encodes a ControlLoco frame and writes it to loco's session.
func (r *Registry) ControlLoco(loco protocol.LocoId, dir protocol.Direction, speed protocol.Speed) error {
	payload, err := protocol.ControlLocoPayload{Direction: dir, Speed: speed}.Encode()
	if err != nil {
		return err
	}

	sess := r.session(loco)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.conn == nil {
		return LocoNotConnectedError{LocoId: loco}
	}

	logrus.Debugf("Registry.ControlLoco: %s direction=%s speed=%s", loco, dir, speed)
	return protocol.WriteFrame(sess.conn, protocol.OpControlLoco, payload)
}

// LocoStatus encodes a LocoStatus request, writes it, then synchronously
// reads the fixed-size reply while holding loco's lock so no other caller
// can interleave on the same transport.
func (r *Registry) LocoStatus(loco protocol.LocoId) (LocoStatus, error) {
	sess := r.session(loco)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.conn == nil {
		return LocoStatus{}, LocoNotConnectedError{LocoId: loco}
	}

	if err := protocol.WriteFrame(sess.conn, protocol.OpLocoStatus, nil); err != nil {
		return LocoStatus{}, err
	}
	resp, err := protocol.DecodeLocoStatusResponse(sess.conn)
	if err != nil {
		return LocoStatus{}, err
	}

	return LocoStatus{
		Direction: resp.Direction,
		Speed:     resp.Speed,
		Location:  sess.location,
		Intent:    sess.intent,
	}, nil
}

// DriveActuator encodes a DriveActuator frame and writes it under the
// actuator session's lock.
func (r *Registry) DriveActuator(id protocol.ActuatorId, actuatorType protocol.ActuatorType, state byte) error {
	payload := protocol.DriveActuatorPayload{ActuatorId: id, ActuatorType: actuatorType, ActuatorState: state}.Encode()

	r.actuators.mu.Lock()
	defer r.actuators.mu.Unlock()

	if r.actuators.conn == nil {
		return ActuatorsNotConnectedError{}
	}

	logrus.Debugf("Registry.DriveActuator: actuator=%d state=%d", id, state)
	return protocol.WriteFrame(r.actuators.conn, protocol.OpDriveActuator, payload)
}
