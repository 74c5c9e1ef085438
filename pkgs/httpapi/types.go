package httpapi

import (
	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/railnetwork"
	"github.com/dededodu/loco-controller/pkgs/registry"
)

// locoStatusView is the JSON rendering of registry.LocoStatus returned by
// GET /loco_status/{loco_id}.
type locoStatusView struct {
	Direction string      `json:"direction"`
	Speed     string      `json:"speed"`
	Location  *string     `json:"location,omitempty"`
	Intent    *intentView `json:"intent,omitempty"`
}

type intentView struct {
	Kind       string  `json:"kind"`
	Direction  string  `json:"direction"`
	Track      *string `json:"track,omitempty"`
	Checkpoint *string `json:"checkpoint,omitempty"`
}

func renderLocoStatus(status registry.LocoStatus) locoStatusView {
	view := locoStatusView{
		Direction: status.Direction.String(),
		Speed:     status.Speed.String(),
	}
	if status.Location != nil {
		s := status.Location.String()
		view.Location = &s
	}
	if status.Intent != nil {
		view.Intent = renderIntent(*status.Intent)
	}
	return view
}

func renderIntent(intent registry.LocoIntent) *intentView {
	view := &intentView{Direction: intent.Direction.String()}
	switch intent.Kind {
	case registry.IntentDrive:
		view.Kind = "drive"
		track := intent.TrackId.String()
		view.Track = &track
	case registry.IntentStop:
		view.Kind = "stop"
		checkpoint := intent.CheckpointId.String()
		view.Checkpoint = &checkpoint
	}
	return view
}

// controlLocoRequest is the JSON body of POST /control_loco. Fields carry
// raw wire byte values, matching the device protocol directly.
type controlLocoRequest struct {
	LocoId    uint8 `json:"loco_id"`
	Direction uint8 `json:"direction"`
	Speed     uint8 `json:"speed"`
}

// locoIntentRequest is the JSON body of POST /loco_intent.
type locoIntentRequest struct {
	LocoId     uint8  `json:"loco_id"`
	Kind       string `json:"kind"` // "drive" | "stop"
	Direction  uint8  `json:"direction"`
	TrackId    *uint8 `json:"track_id,omitempty"`
	Checkpoint *uint8 `json:"checkpoint_id,omitempty"`
}

func (req locoIntentRequest) toIntent() (registry.LocoIntent, error) {
	dir, err := protocol.DecodeDirection(req.Direction)
	if err != nil {
		return registry.LocoIntent{}, err
	}
	switch req.Kind {
	case "drive":
		if req.TrackId == nil {
			return registry.LocoIntent{}, badRequestError{"drive intent requires track_id"}
		}
		return registry.DriveIntent(dir, railnetwork.TrackId(*req.TrackId)), nil
	case "stop":
		if req.Checkpoint == nil {
			return registry.LocoIntent{}, badRequestError{"stop intent requires checkpoint_id"}
		}
		return registry.StopIntent(dir, railnetwork.CheckpointId(*req.Checkpoint)), nil
	default:
		return registry.LocoIntent{}, badRequestError{"kind must be \"drive\" or \"stop\""}
	}
}

// driveSwitchRailsRequest is the JSON body of POST /drive_switch_rails.
type driveSwitchRailsRequest struct {
	ActuatorId uint8 `json:"actuator_id"`
	State      uint8 `json:"state"`
}

// oracleModeRequest is the JSON body of POST /oracle_mode.
type oracleModeRequest struct {
	Mode string `json:"mode"` // "off" | "auto"
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }
