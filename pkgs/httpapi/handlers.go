// Package httpapi implements the Operator API (C6): an HTTP JSON surface
// over the Registry for status queries, immediate device control, intent
// assignment and oracle mode toggling.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/registry"
)

// NewMux builds the operator HTTP surface bound to reg.
func NewMux(reg *registry.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handleLiveness)
	mux.HandleFunc("GET /loco_status/{loco_id}", handleLocoStatus(reg))
	mux.HandleFunc("POST /control_loco", handleControlLoco(reg))
	mux.HandleFunc("POST /loco_intent", handleLocoIntent(reg))
	mux.HandleFunc("POST /drive_switch_rails", handleDriveSwitchRails(reg))
	mux.HandleFunc("POST /oracle_mode", handleOracleMode(reg))
	return mux
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	logrus.Debug("httpapi: GET /")
	w.Write([]byte("loco-controller: ok"))
}

func handleLocoStatus(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debugf("httpapi: GET /loco_status/%s", r.PathValue("loco_id"))

		id, err := parseLocoId(r.PathValue("loco_id"))
		if err != nil {
			writeBadRequest(w, err)
			return
		}

		status, err := reg.LocoStatus(id)
		if err != nil {
			logrus.Errorf("httpapi: loco_status(%s): %s", id, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, renderLocoStatus(status))
	}
}

func handleControlLoco(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debug("httpapi: POST /control_loco")

		if reg.OracleEnabled() {
			http.Error(w, "oracle mode is enabled: manual control loco rejected", http.StatusInternalServerError)
			return
		}

		var req controlLocoRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		locoId, err := protocol.DecodeLocoId(req.LocoId)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		direction, err := protocol.DecodeDirection(req.Direction)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		speed, err := protocol.DecodeSpeed(req.Speed)
		if err != nil {
			writeBadRequest(w, err)
			return
		}

		if err := reg.ControlLoco(locoId, direction, speed); err != nil {
			logrus.Errorf("httpapi: control_loco(%s): %s", locoId, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func handleLocoIntent(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debug("httpapi: POST /loco_intent")

		var req locoIntentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		locoId, err := protocol.DecodeLocoId(req.LocoId)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		intent, err := req.toIntent()
		if err != nil {
			writeBadRequest(w, err)
			return
		}

		reg.SetIntent(locoId, intent)
	}
}

func handleDriveSwitchRails(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debug("httpapi: POST /drive_switch_rails")

		if reg.OracleEnabled() {
			http.Error(w, "oracle mode is enabled: manual switch control rejected", http.StatusInternalServerError)
			return
		}

		var req driveSwitchRailsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		actuatorId, err := protocol.DecodeActuatorId(req.ActuatorId)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		state, err := protocol.DecodeSwitchState(req.State)
		if err != nil {
			writeBadRequest(w, err)
			return
		}

		if err := reg.DriveActuator(actuatorId, protocol.ActuatorTypeSwitchRails, state.Encode()); err != nil {
			logrus.Errorf("httpapi: drive_switch_rails(%s): %s", actuatorId, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func handleOracleMode(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debug("httpapi: POST /oracle_mode")

		var req oracleModeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		switch req.Mode {
		case "auto":
			reg.SetOracleMode(true)
		case "off":
			reg.SetOracleMode(false)
		default:
			writeBadRequest(w, badRequestError{"mode must be \"off\" or \"auto\""})
		}
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("httpapi: encoding response: %s", err)
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func parseLocoId(raw string) (protocol.LocoId, error) {
	if len(raw) != 1 {
		return 0, badRequestError{"loco_id must be a single digit"}
	}
	return protocol.DecodeLocoId(raw[0] - '0')
}
