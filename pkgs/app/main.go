package app

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/dededodu/loco-controller/pkgs/apiclient"
	"github.com/dededodu/loco-controller/pkgs/config"
	"github.com/dededodu/loco-controller/pkgs/httpapi"
	"github.com/dededodu/loco-controller/pkgs/listeners"
	"github.com/dededodu/loco-controller/pkgs/oracle"
	"github.com/dededodu/loco-controller/pkgs/output"
	"github.com/dededodu/loco-controller/pkgs/registry"
	"github.com/dededodu/loco-controller/pkgs/syntax"
)

//
// Actions - a controller level
// prints are allowed only via Printer interface
//
// The controller level is intended to provide a layer of performing actions - everything needed to perform a single action e.g. read a locomotive's status
//

type LocoApp struct {
	Config *config.Configuration

	// runtime parameters
	Debug bool
	P     output.Printer
}

// Initialize is running after parsing the arguments, so we know how to configure the app
func (app *LocoApp) Initialize() error {
	// logging
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// configuration
	logrus.Debug("Reading configuration files")
	cfg, cfgErr := config.NewConfig()
	app.Config = cfg
	if cfgErr != nil {
		return fmt.Errorf("cannot initialize app: %s", cfgErr)
	}
	if !app.Debug {
		level, err := logrus.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("cannot initialize app: %s", err)
		}
		logrus.SetLevel(level)
	}
	return nil
}

func (app *LocoApp) client() *apiclient.Client {
	return apiclient.NewClient(apiclient.WithBaseURL(app.Config.Server.HttpBaseURL))
}

// ServeAction starts the listener set (C4), the Oracle (C5) and the
// operator HTTP API (C6) against one shared Registry. It blocks until a
// listener fails; a failure of the operator API is logged and does not
// end the call.
func (app *LocoApp) ServeAction() error {
	reg := registry.New()

	o := oracle.New(reg)
	go o.Run(make(chan struct{}))

	httpAddr := fmt.Sprintf(":%d", app.Config.Server.HttpPort)
	go func() {
		logrus.Infof("app: operator API listening on %s", httpAddr)
		if err := http.ListenAndServe(httpAddr, httpapi.NewMux(reg)); err != nil {
			logrus.Errorf("app: operator API stopped: %s", err)
		}
	}()

	return listeners.Serve(reg, listeners.Ports{
		Locos:     int(app.Config.Server.LocosPort),
		Sensors:   int(app.Config.Server.SensorsPort),
		Actuators: int(app.Config.Server.ActuatorsPort),
	})
}

// StatusAction prints a locomotive's status as reported by a running
// controller.
func (app *LocoApp) StatusAction(locoId uint8) error {
	status, err := app.client().LocoStatus(locoId)
	if err != nil {
		return err
	}
	location := "?"
	if status.Location != nil {
		location = *status.Location
	}
	app.P.Printf("direction=%s speed=%s location=%s intent=%+v\n", status.Direction, status.Speed, location, status.Intent)
	return nil
}

// IntentAction sends a loco_intent request: a drive intent when trackId is
// non-nil, otherwise a stop intent at checkpointId.
func (app *LocoApp) IntentAction(locoId, direction uint8, trackId, checkpointId *uint8) error {
	return app.client().SetIntent(locoId, direction, trackId, checkpointId)
}

// ControlAction sends an immediate control_loco request.
func (app *LocoApp) ControlAction(locoId, direction, speed uint8) error {
	return app.client().ControlLoco(locoId, direction, speed)
}

// SwitchAction drives a batch of "actuator=state" pairs, in ascending
// actuator order.
func (app *LocoApp) SwitchAction(batchRaw string) error {
	entries, err := syntax.ParseIDValueList(batchRaw, ",")
	if err != nil {
		return err
	}

	client := app.client()
	for _, entry := range entries {
		if err := client.DriveSwitchRails(entry.Id, entry.Value); err != nil {
			return fmt.Errorf("driving actuator %d: %w", entry.Id, err)
		}
	}
	return nil
}

// OracleModeAction toggles the controller's oracle_enabled flag.
func (app *LocoApp) OracleModeAction(mode string) error {
	return app.client().SetOracleMode(mode)
}
