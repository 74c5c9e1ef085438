package protocol

import "io"

// ConnectPayload is sent loco→controller as the first frame of a locomotive
// session.
type ConnectPayload struct {
	LocoId LocoId
}

func (p ConnectPayload) Encode() []byte { return []byte{p.LocoId.Encode()} }

func DecodeConnectPayload(r io.Reader) (ConnectPayload, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ConnectPayload{}, err
	}
	id, err := DecodeLocoId(buf[0])
	if err != nil {
		return ConnectPayload{}, err
	}
	return ConnectPayload{LocoId: id}, nil
}

// ControlLocoPayload is sent controller→loco to set direction and speed.
type ControlLocoPayload struct {
	Direction Direction
	Speed     Speed
}

func (p ControlLocoPayload) Encode() ([]byte, error) {
	speedByte, err := p.Speed.Encode()
	if err != nil {
		return nil, err
	}
	return []byte{p.Direction.Encode(), speedByte}, nil
}

func DecodeControlLocoPayload(r io.Reader) (ControlLocoPayload, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ControlLocoPayload{}, err
	}
	dir, err := DecodeDirection(buf[0])
	if err != nil {
		return ControlLocoPayload{}, err
	}
	speed, err := DecodeSpeed(buf[1])
	if err != nil {
		return ControlLocoPayload{}, err
	}
	return ControlLocoPayload{Direction: dir, Speed: speed}, nil
}

// LocoStatusResponse is sent loco→controller in reply to a LocoStatus
// request. It has no header of its own.
type LocoStatusResponse struct {
	Direction Direction
	Speed     Speed
}

func (p LocoStatusResponse) Encode() ([]byte, error) {
	speedByte, err := p.Speed.Encode()
	if err != nil {
		return nil, err
	}
	return []byte{p.Direction.Encode(), speedByte}, nil
}

func DecodeLocoStatusResponse(r io.Reader) (LocoStatusResponse, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return LocoStatusResponse{}, err
	}
	dir, err := DecodeDirection(buf[0])
	if err != nil {
		return LocoStatusResponse{}, err
	}
	speed, err := DecodeSpeed(buf[1])
	if err != nil {
		return LocoStatusResponse{}, err
	}
	return LocoStatusResponse{Direction: dir, Speed: speed}, nil
}

// SensorStatusRecord reports one locomotive observed at one sensor.
type SensorStatusRecord struct {
	SensorId SensorId
	LocoId   LocoId
}

// SensorsStatusPayload is sent sensors→controller: a count followed by that
// many SensorStatusRecord entries.
type SensorsStatusPayload struct {
	Records []SensorStatusRecord
}

func (p SensorsStatusPayload) Encode() []byte {
	buf := make([]byte, 0, 1+2*len(p.Records))
	buf = append(buf, byte(len(p.Records)))
	for _, rec := range p.Records {
		buf = append(buf, rec.SensorId.Encode(), rec.LocoId.Encode())
	}
	return buf
}

// DecodeSensorsStatusPayload reads the length-prefixed record array.
func DecodeSensorsStatusPayload(r io.Reader) (SensorsStatusPayload, error) {
	var lenBuf [1]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return SensorsStatusPayload{}, err
	}
	n := int(lenBuf[0])
	records := make([]SensorStatusRecord, 0, n)
	for i := 0; i < n; i++ {
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return SensorsStatusPayload{}, err
		}
		sensorId, err := DecodeSensorId(buf[0])
		if err != nil {
			return SensorsStatusPayload{}, err
		}
		locoId, err := DecodeLocoId(buf[1])
		if err != nil {
			return SensorsStatusPayload{}, err
		}
		records = append(records, SensorStatusRecord{SensorId: sensorId, LocoId: locoId})
	}
	return SensorsStatusPayload{Records: records}, nil
}

// DriveActuatorPayload is sent controller→actuators to set a turnout.
type DriveActuatorPayload struct {
	ActuatorId    ActuatorId
	ActuatorType  ActuatorType
	ActuatorState byte
}

func (p DriveActuatorPayload) Encode() []byte {
	return []byte{p.ActuatorId.Encode(), p.ActuatorType.Encode(), p.ActuatorState}
}

func DecodeDriveActuatorPayload(r io.Reader) (DriveActuatorPayload, error) {
	var buf [3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return DriveActuatorPayload{}, err
	}
	actuatorId, err := DecodeActuatorId(buf[0])
	if err != nil {
		return DriveActuatorPayload{}, err
	}
	actuatorType, err := DecodeActuatorType(buf[1])
	if err != nil {
		return DriveActuatorPayload{}, err
	}
	return DriveActuatorPayload{
		ActuatorId:    actuatorId,
		ActuatorType:  actuatorType,
		ActuatorState: buf[2],
	}, nil
}
