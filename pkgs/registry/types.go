// Package registry implements the Device Registry: the shared, thread-safe
// collection of connected device sessions (locomotives, sensors, actuator
// bank) and the synchronous request/response protocol that rides each one.
package registry

import (
	"fmt"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/railnetwork"
)

// NotConnectedError marks errors raised when a caller addresses a session
// that has no transport installed.
type NotConnectedError interface {
	error
	isNotConnectedError()
}

// LocoNotConnectedError is returned by ControlLoco/LocoStatus when the
// locomotive has no installed session.
type LocoNotConnectedError struct{ LocoId protocol.LocoId }

func (e LocoNotConnectedError) Error() string {
	return fmt.Sprintf("loco %s not connected", e.LocoId)
}
func (LocoNotConnectedError) isNotConnectedError() {}

// ActuatorsNotConnectedError is returned by DriveActuator when the
// actuator bank has no installed session.
type ActuatorsNotConnectedError struct{}

func (ActuatorsNotConnectedError) Error() string       { return "actuators not connected" }
func (ActuatorsNotConnectedError) isNotConnectedError() {}

// IntentKind discriminates the two LocoIntent variants.
type IntentKind uint8

const (
	IntentDrive IntentKind = iota
	IntentStop
)

// LocoIntent is the operator-supplied goal for a locomotive: either reach
// any checkpoint of a track, or reach and stop at a specific checkpoint.
type LocoIntent struct {
	Kind         IntentKind
	Direction    protocol.Direction
	TrackId      railnetwork.TrackId      // valid when Kind == IntentDrive
	CheckpointId railnetwork.CheckpointId // valid when Kind == IntentStop
}

// DriveIntent builds a "proceed until any checkpoint on track" intent.
func DriveIntent(dir protocol.Direction, track railnetwork.TrackId) LocoIntent {
	return LocoIntent{Kind: IntentDrive, Direction: dir, TrackId: track}
}

// StopIntent builds a "proceed until exactly this checkpoint, then stop" intent.
func StopIntent(dir protocol.Direction, cp railnetwork.CheckpointId) LocoIntent {
	return LocoIntent{Kind: IntentStop, Direction: dir, CheckpointId: cp}
}

// LocoStatus is the snapshot returned by Registry.LocoStatus.
type LocoStatus struct {
	Direction protocol.Direction
	Speed     protocol.Speed
	Location  *railnetwork.CheckpointId
	Intent    *LocoIntent
}
