package protocol

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{Operation: OpConnect, PayloadLen: 1},
		{Operation: OpControlLoco, PayloadLen: 2},
		{Operation: OpLocoStatus, PayloadLen: 0},
		{Operation: OpSensorsStatus, PayloadLen: 255},
		{Operation: OpDriveActuator, PayloadLen: 3},
	}

	for _, h := range cases {
		enc := h.Encode()
		got, err := DecodeHeader(bytes.NewReader(enc[:]))
		if err != nil {
			t.Fatalf("DecodeHeader(%v) error: %s", enc, err)
		}
		if got != h {
			t.Errorf("round-trip mismatch: got %+v, want %+v", got, h)
		}
		reEnc := got.Encode()
		if reEnc != enc {
			t.Errorf("re-encode mismatch: got %v, want %v", reEnc, enc)
		}
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	_, err := DecodeHeader(bytes.NewReader([]byte{0x00, byte(OpConnect), 1}))
	var fe FramingError
	if !asFramingError(err, &fe) {
		t.Fatalf("expected a FramingError, got %v", err)
	}
}

func asFramingError(err error, out *FramingError) bool {
	fe, ok := err.(FramingError)
	if ok {
		*out = fe
	}
	return ok
}

func TestDecodeHeaderUnknownOperation(t *testing.T) {
	_, err := DecodeHeader(bytes.NewReader([]byte{Magic, 0x09, 0}))
	if _, ok := err.(UnknownOperationError); !ok {
		t.Fatalf("expected UnknownOperationError, got %T: %v", err, err)
	}
}

func TestSpeedEncodeDecodeValid(t *testing.T) {
	cases := []byte{0, 1, 2, 3, 100, 150, 199}
	for _, b := range cases {
		s, err := DecodeSpeed(b)
		if err != nil {
			t.Fatalf("DecodeSpeed(%d) error: %s", b, err)
		}
		got, err := s.Encode()
		if err != nil {
			t.Fatalf("Speed(%d).Encode() error: %s", b, err)
		}
		if got != b {
			t.Errorf("Speed round-trip mismatch: got %d, want %d", got, b)
		}
	}
}

func TestSpeedRejectsOutOfRange(t *testing.T) {
	cases := []byte{4, 50, 99, 200, 255}
	for _, b := range cases {
		if _, err := DecodeSpeed(b); err == nil {
			t.Errorf("DecodeSpeed(%d) expected error, got nil", b)
		}
		if _, err := Speed(b).Encode(); err == nil {
			t.Errorf("Speed(%d).Encode() expected error, got nil", b)
		}
	}
}

func TestNewPwmDutyCycleSpeed(t *testing.T) {
	s, err := NewPwmDutyCycleSpeed(42)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	duty, ok := s.DutyCycle()
	if !ok || duty != 42 {
		t.Errorf("got duty=%d ok=%v, want 42 true", duty, ok)
	}
	if _, err := NewPwmDutyCycleSpeed(100); err == nil {
		t.Errorf("expected error for duty=100")
	}
}

func TestControlLocoPayloadRoundTrip(t *testing.T) {
	p := ControlLocoPayload{Direction: Forward, Speed: SpeedNormal}
	enc, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode error: %s", err)
	}
	got, err := DecodeControlLocoPayload(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("Decode error: %s", err)
	}
	if got != p {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestSensorsStatusPayloadRoundTrip(t *testing.T) {
	p := SensorsStatusPayload{Records: []SensorStatusRecord{
		{SensorId: RfidReader1, LocoId: Loco1},
		{SensorId: RfidReader8, LocoId: Loco2},
	}}
	enc := p.Encode()
	got, err := DecodeSensorsStatusPayload(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("Decode error: %s", err)
	}
	if len(got.Records) != len(p.Records) {
		t.Fatalf("got %d records, want %d", len(got.Records), len(p.Records))
	}
	for i := range p.Records {
		if got.Records[i] != p.Records[i] {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, got.Records[i], p.Records[i])
		}
	}
}

func TestDriveActuatorPayloadRoundTrip(t *testing.T) {
	p := DriveActuatorPayload{ActuatorId: SwitchRails2, ActuatorType: ActuatorTypeSwitchRails, ActuatorState: byte(Diverted)}
	enc := p.Encode()
	got, err := DecodeDriveActuatorPayload(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("Decode error: %s", err)
	}
	if got != p {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestDecodeLocoIdRejectsUnknown(t *testing.T) {
	if _, err := DecodeLocoId(9); err == nil {
		t.Errorf("expected error for unknown loco id")
	}
}
