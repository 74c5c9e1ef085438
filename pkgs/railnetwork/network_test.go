package railnetwork

import (
	"testing"

	"github.com/dededodu/loco-controller/pkgs/protocol"
)

func TestSegmentOfIsSymmetric(t *testing.T) {
	n := New()
	pairs := [][2]CheckpointId{
		{Checkpoint1, Checkpoint2},
		{Checkpoint6, Station1},
		{Checkpoint3, Station2},
	}
	for _, p := range pairs {
		ab, err := n.SegmentOf(p[0], p[1])
		if err != nil {
			t.Fatalf("SegmentOf(%s,%s) error: %s", p[0], p[1], err)
		}
		ba, err := n.SegmentOf(p[1], p[0])
		if err != nil {
			t.Fatalf("SegmentOf(%s,%s) error: %s", p[1], p[0], err)
		}
		if ab != ba {
			t.Errorf("SegmentOf not symmetric for (%s,%s): %s vs %s", p[0], p[1], ab, ba)
		}
	}
}

func TestSegmentOfRejectsNonAdjacent(t *testing.T) {
	n := New()
	if _, err := n.SegmentOf(Checkpoint1, Checkpoint4); err == nil {
		t.Error("expected NoSuchSegmentError for non-adjacent checkpoints")
	}
}

// S1 — single loco, direct intent: from Checkpoint1 forward to Track1
// resolves directly to Checkpoint2, segment1.
func TestNextCheckpointForTrackDirect(t *testing.T) {
	n := New()
	next, ok := n.NextCheckpointForTrack(Checkpoint1, protocol.Forward, Track1)
	if !ok || next != Checkpoint2 {
		t.Fatalf("got (%s, %v), want (Checkpoint2, true)", next, ok)
	}
	seg, err := n.SegmentOf(Checkpoint1, next)
	if err != nil {
		t.Fatalf("SegmentOf error: %s", err)
	}
	if seg != Segment1 {
		t.Errorf("got segment %s, want Segment1", seg)
	}
	reqs := n.Segment(seg).SwitchRequirements
	if len(reqs) != 1 || reqs[0].ActuatorId != protocol.SwitchRails2 || reqs[0].State != protocol.Direct {
		t.Errorf("unexpected switch requirements: %+v", reqs)
	}
}

// S5 — station route selection: from Checkpoint2 forward targeting
// Station2, the search first steps to Checkpoint3 (Segment2, no turnout)
// and then onto Station2 (Segment9), where the turnout diverts.
func TestNextCheckpointForTrackStationRoute(t *testing.T) {
	n := New()
	cur := Checkpoint2
	var reqs []SwitchRequirement
	for steps := 0; n.TrackOf(cur) != TrackStation2; steps++ {
		if steps >= n.LongestPath() {
			t.Fatalf("Station2 not reached from Checkpoint2 within %d steps", n.LongestPath())
		}
		next, ok := n.NextCheckpointForTrack(cur, protocol.Forward, TrackStation2)
		if !ok {
			t.Fatal("expected a path to Station2")
		}
		seg, err := n.SegmentOf(cur, next)
		if err != nil {
			t.Fatalf("SegmentOf error: %s", err)
		}
		reqs = append(reqs, n.Segment(seg).SwitchRequirements...)
		cur = next
	}
	foundDiverted := false
	for _, r := range reqs {
		if r.State == protocol.Diverted {
			foundDiverted = true
		}
	}
	if !foundDiverted {
		t.Errorf("expected a Diverted switch requirement on the route to Station2, got %+v", reqs)
	}
}

func TestNextCheckpointForCheckpointArrival(t *testing.T) {
	n := New()
	next, ok := n.NextCheckpointForCheckpoint(Checkpoint6, protocol.Forward, Station1)
	if !ok || next != Station1 {
		t.Fatalf("got (%s, %v), want (Station1, true)", next, ok)
	}
}

func TestConflictsAreSymmetric(t *testing.T) {
	n := New()
	for id, seg := range n.segments {
		for _, c := range seg.Conflicts {
			if !n.Segment(c).ConflictsWith(id) {
				t.Errorf("conflict not symmetric: %s conflicts with %s but not vice versa", id, c)
			}
		}
	}
}

func TestCheckpointForSensorBijection(t *testing.T) {
	got, err := CheckpointForSensor(protocol.RfidReader7)
	if err != nil || got != Station1 {
		t.Fatalf("got (%s, %v), want (Station1, nil)", got, err)
	}
}
