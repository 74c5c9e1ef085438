// Package listeners implements the Listener Set (C4): three independent
// blocking TCP acceptors, one per device class, each installing accepted
// connections into a shared Registry.
package listeners

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/panics"

	"github.com/dededodu/loco-controller/pkgs/registry"
)

// Default baseline ports, matching the firmware's compiled-in constants.
const (
	DefaultLocosPort     = 8004
	DefaultSensorsPort   = 8005
	DefaultActuatorsPort = 8006
)

// Ports configures the three listener addresses. A non-zero field
// overrides its DefaultXxxPort.
type Ports struct {
	Locos     int
	Sensors   int
	Actuators int
}

func (p Ports) locos() int {
	if p.Locos == 0 {
		return DefaultLocosPort
	}
	return p.Locos
}

func (p Ports) sensors() int {
	if p.Sensors == 0 {
		return DefaultSensorsPort
	}
	return p.Sensors
}

func (p Ports) actuators() int {
	if p.Actuators == 0 {
		return DefaultActuatorsPort
	}
	return p.Actuators
}

// Serve starts the three acceptors and blocks until any one of them fails
// to listen. Each accepted connection is handled on its own goroutine,
// wrapped in a panics.Catcher so a handler bug logs and is contained
// instead of crashing the acceptor.
func Serve(reg *registry.Registry, ports Ports) error {
	errc := make(chan error, 3)

	go acceptLoop(errc, ports.locos(), "locos", func(conn net.Conn) {
		if err := reg.InstallLoco(conn); err != nil {
			logrus.Errorf("listeners: loco session %s ended: %s", conn.RemoteAddr(), err)
		}
	})
	go acceptLoop(errc, ports.sensors(), "sensors", func(conn net.Conn) {
		if err := reg.ServeSensors(conn); err != nil {
			logrus.Errorf("listeners: sensor session %s ended: %s", conn.RemoteAddr(), err)
		}
	})
	go acceptLoop(errc, ports.actuators(), "actuators", func(conn net.Conn) {
		reg.InstallActuators(conn)
	})

	return <-errc
}

func acceptLoop(errc chan<- error, port int, name string, handle func(net.Conn)) {
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		errc <- err
		return
	}
	logrus.Infof("listeners: %s listening on %s", name, addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			errc <- err
			return
		}
		logrus.Debugf("listeners: %s accepted %s", name, conn.RemoteAddr())

		go func() {
			var c panics.Catcher
			c.Try(func() { handle(conn) })
			if recovered := c.Recovered(); recovered != nil {
				logrus.Errorf("listeners: %s handler panicked: %v", name, recovered)
			}
		}()
	}
}
