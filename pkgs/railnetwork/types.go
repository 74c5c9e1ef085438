// Package railnetwork models the static, immutable track topology the
// Oracle plans over: checkpoints (graph nodes), segments (graph edges,
// carrying turnout requirements and conflicts), and the two best-first
// path searches used to advance a locomotive toward its intent.
package railnetwork

import (
	"fmt"

	"github.com/dededodu/loco-controller/pkgs/protocol"
)

// CheckpointId identifies a discrete detection point on the track.
type CheckpointId uint8

const (
	Checkpoint1 CheckpointId = iota
	Checkpoint2
	Checkpoint3
	Checkpoint4
	Checkpoint5
	Checkpoint6
	Station1
	Station2
)

func (c CheckpointId) String() string {
	switch c {
	case Checkpoint1:
		return "Checkpoint1"
	case Checkpoint2:
		return "Checkpoint2"
	case Checkpoint3:
		return "Checkpoint3"
	case Checkpoint4:
		return "Checkpoint4"
	case Checkpoint5:
		return "Checkpoint5"
	case Checkpoint6:
		return "Checkpoint6"
	case Station1:
		return "Station1"
	case Station2:
		return "Station2"
	default:
		return "CheckpointId(?)"
	}
}

// sensorToCheckpoint is the fixed bijection between a wayside RFID reader
// and the checkpoint it sits at.
var sensorToCheckpoint = map[protocol.SensorId]CheckpointId{
	protocol.RfidReader1: Checkpoint1,
	protocol.RfidReader2: Checkpoint2,
	protocol.RfidReader3: Checkpoint3,
	protocol.RfidReader4: Checkpoint4,
	protocol.RfidReader5: Checkpoint5,
	protocol.RfidReader6: Checkpoint6,
	protocol.RfidReader7: Station1,
	protocol.RfidReader8: Station2,
}

// CheckpointForSensor resolves the fixed SensorId -> CheckpointId bijection.
func CheckpointForSensor(id protocol.SensorId) (CheckpointId, error) {
	cp, ok := sensorToCheckpoint[id]
	if !ok {
		return 0, fmt.Errorf("no checkpoint bound to sensor %d", id)
	}
	return cp, nil
}

// TrackId groups checkpoints into a physical track an intent can target.
type TrackId uint8

const (
	Track1 TrackId = iota
	TrackStation1
	TrackStation2
)

func (t TrackId) String() string {
	switch t {
	case Track1:
		return "Track1"
	case TrackStation1:
		return "Station1"
	case TrackStation2:
		return "Station2"
	default:
		return "TrackId(?)"
	}
}

// SegmentId identifies the stretch of track between two adjacent
// checkpoints.
type SegmentId uint8

const (
	Segment1 SegmentId = iota + 1
	Segment2
	Segment3
	Segment4
	Segment5
	Segment6
	Segment7
	Segment8
	Segment9
	Segment10
)

func (s SegmentId) String() string {
	if s < Segment1 || s > Segment10 {
		return "SegmentId(?)"
	}
	return fmt.Sprintf("Segment%d", s)
}

// SegmentPriority ranks checkpoints and segments; 0 is highest.
type SegmentPriority uint8

const (
	Priority0 SegmentPriority = iota
	Priority1
	Priority2
)

// SwitchRequirement is one (actuator, required state) pair a segment needs
// to physically exist.
type SwitchRequirement struct {
	ActuatorId protocol.ActuatorId
	State      protocol.SwitchState
}

// Segment is an edge of the rail graph.
type Segment struct {
	Priority           SegmentPriority
	SwitchRequirements []SwitchRequirement
	Conflicts          []SegmentId
}

// ConflictsWith reports whether id is in s's conflict set.
func (s Segment) ConflictsWith(id SegmentId) bool {
	for _, c := range s.Conflicts {
		if c == id {
			return true
		}
	}
	return false
}

// checkpoint is a node of the rail graph.
type checkpoint struct {
	trackId   TrackId
	priority  SegmentPriority
	neighbors map[protocol.Direction][]CheckpointId
}
