package protocol

// LocoId identifies a locomotive. Baseline deployment has two.
type LocoId uint8

const (
	Loco1 LocoId = 1
	Loco2 LocoId = 2
)

var allLocoIds = []LocoId{Loco1, Loco2}

// AllLocoIds returns every baseline LocoId in ascending order.
func AllLocoIds() []LocoId {
	out := make([]LocoId, len(allLocoIds))
	copy(out, allLocoIds)
	return out
}

func DecodeLocoId(b byte) (LocoId, error) {
	switch b {
	case 1:
		return Loco1, nil
	case 2:
		return Loco2, nil
	default:
		return 0, UnknownLocoIdError{b}
	}
}

func (l LocoId) Encode() byte { return byte(l) }

func (l LocoId) String() string {
	switch l {
	case Loco1:
		return "Loco1"
	case Loco2:
		return "Loco2"
	default:
		return "LocoId(?)"
	}
}

// LocoUID is the 4-byte RFID UID bound to a locomotive at compile time.
// Informational only: SensorsStatus frames already carry a decoded LocoId,
// the controller never decodes raw UIDs itself.
type LocoUID [4]byte

// LocoUIDs is the baseline compile-time UID table, documentation only.
var LocoUIDs = map[LocoId]LocoUID{
	Loco1: {0xDE, 0xAD, 0xBE, 0xEF},
	Loco2: {0xFE, 0xED, 0xFA, 0xCE},
}

// SensorId identifies a wayside RFID reader. Baseline deployment has 8.
type SensorId uint8

const (
	RfidReader1 SensorId = 1
	RfidReader2 SensorId = 2
	RfidReader3 SensorId = 3
	RfidReader4 SensorId = 4
	RfidReader5 SensorId = 5
	RfidReader6 SensorId = 6
	RfidReader7 SensorId = 7
	RfidReader8 SensorId = 8
)

func DecodeSensorId(b byte) (SensorId, error) {
	if b < 1 || b > 8 {
		return 0, UnknownSensorIdError{b}
	}
	return SensorId(b), nil
}

func (s SensorId) Encode() byte { return byte(s) }

func (s SensorId) String() string {
	if s < 1 || s > 8 {
		return "SensorId(?)"
	}
	return "RfidReader" + string(rune('0'+byte(s)))
}

// ActuatorId identifies a motorized switch (turnout). Baseline deployment
// wires 4 of the 8 addressable ids.
type ActuatorId uint8

const (
	SwitchRails1 ActuatorId = 1
	SwitchRails2 ActuatorId = 2
	SwitchRails3 ActuatorId = 3
	SwitchRails4 ActuatorId = 4
)

func DecodeActuatorId(b byte) (ActuatorId, error) {
	if b < 1 || b > 8 {
		return 0, UnknownActuatorIdError{b}
	}
	return ActuatorId(b), nil
}

func (a ActuatorId) Encode() byte { return byte(a) }

// ActuatorType identifies the kind of device behind an ActuatorId. Baseline
// deployment only has switch-rails actuators.
type ActuatorType uint8

const ActuatorTypeSwitchRails ActuatorType = 1

func DecodeActuatorType(b byte) (ActuatorType, error) {
	if b != byte(ActuatorTypeSwitchRails) {
		return 0, UnknownActuatorTypeError{b}
	}
	return ActuatorTypeSwitchRails, nil
}

func (t ActuatorType) Encode() byte { return byte(t) }

// SwitchState is the physical position of a turnout.
type SwitchState uint8

const (
	Direct   SwitchState = 1
	Diverted SwitchState = 2
)

func DecodeSwitchState(b byte) (SwitchState, error) {
	switch b {
	case 1:
		return Direct, nil
	case 2:
		return Diverted, nil
	default:
		return 0, UnknownSwitchStateError{b}
	}
}

func (s SwitchState) Encode() byte { return byte(s) }

func (s SwitchState) String() string {
	switch s {
	case Direct:
		return "Direct"
	case Diverted:
		return "Diverted"
	default:
		return "SwitchState(?)"
	}
}

// Direction is the running direction of a locomotive, or the direction a
// path search proceeds in.
type Direction uint8

const (
	Forward  Direction = 1
	Backward Direction = 2
)

func DecodeDirection(b byte) (Direction, error) {
	switch b {
	case 1:
		return Forward, nil
	case 2:
		return Backward, nil
	default:
		return 0, UnknownDirectionError{b}
	}
}

func (d Direction) Encode() byte { return byte(d) }

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Backward:
		return "Backward"
	default:
		return "Direction(?)"
	}
}

// Speed is an ordered throttle enum, optionally extended with a PWM duty
// cycle (wire range 100..199, duty 0..99).
type Speed uint8

const (
	SpeedStop   Speed = 0
	SpeedSlow   Speed = 1
	SpeedNormal Speed = 2
	SpeedFast   Speed = 3

	pwmBase Speed = 100
	pwmMax  Speed = 199
)

// NewPwmDutyCycleSpeed builds a Speed carrying a PWM duty cycle (0..99).
func NewPwmDutyCycleSpeed(duty uint8) (Speed, error) {
	if duty > 99 {
		return 0, UnknownSpeedError{Value: byte(pwmBase) + duty}
	}
	return pwmBase + Speed(duty), nil
}

// IsPwmDutyCycle reports whether s carries a PWM duty cycle rather than a
// plain throttle step.
func (s Speed) IsPwmDutyCycle() bool { return s >= pwmBase && s <= pwmMax }

// DutyCycle returns the PWM duty cycle carried by s, if any.
func (s Speed) DutyCycle() (uint8, bool) {
	if !s.IsPwmDutyCycle() {
		return 0, false
	}
	return uint8(s - pwmBase), true
}

func DecodeSpeed(b byte) (Speed, error) {
	if b <= byte(SpeedFast) || (b >= byte(pwmBase) && b <= byte(pwmMax)) {
		return Speed(b), nil
	}
	return 0, UnknownSpeedError{b}
}

// Encode validates s and returns its wire byte.
func (s Speed) Encode() (byte, error) {
	if s <= SpeedFast || s.IsPwmDutyCycle() {
		return byte(s), nil
	}
	return 0, UnknownSpeedError{byte(s)}
}

func (s Speed) String() string {
	switch {
	case s == SpeedStop:
		return "Stop"
	case s == SpeedSlow:
		return "Slow"
	case s == SpeedNormal:
		return "Normal"
	case s == SpeedFast:
		return "Fast"
	case s.IsPwmDutyCycle():
		duty, _ := s.DutyCycle()
		return "PwmDutyCycle(" + string(rune('0'+duty%10)) + ")"
	default:
		return "Speed(?)"
	}
}

// Operation identifies the kind of frame a header introduces.
type Operation uint8

const (
	OpConnect        Operation = 1
	OpControlLoco     Operation = 2
	OpLocoStatus      Operation = 3
	OpSensorsStatus   Operation = 4
	OpDriveActuator   Operation = 5
)

func DecodeOperation(b byte) (Operation, error) {
	switch b {
	case 1:
		return OpConnect, nil
	case 2:
		return OpControlLoco, nil
	case 3:
		return OpLocoStatus, nil
	case 4:
		return OpSensorsStatus, nil
	case 5:
		return OpDriveActuator, nil
	default:
		return 0, UnknownOperationError{b}
	}
}

func (o Operation) Encode() byte { return byte(o) }

func (o Operation) String() string {
	switch o {
	case OpConnect:
		return "Connect"
	case OpControlLoco:
		return "ControlLoco"
	case OpLocoStatus:
		return "LocoStatus"
	case OpSensorsStatus:
		return "SensorsStatus"
	case OpDriveActuator:
		return "DriveActuator"
	default:
		return "Operation(?)"
	}
}
