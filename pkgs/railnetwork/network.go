package railnetwork

import (
	"fmt"
	"sort"

	"github.com/dededodu/loco-controller/pkgs/protocol"
)

// NoSuchSegmentError is returned by SegmentOf when two checkpoints are not
// adjacent.
type NoSuchSegmentError struct {
	A, B CheckpointId
}

func (e NoSuchSegmentError) Error() string {
	return fmt.Sprintf("no segment between %s and %s", e.A, e.B)
}

// RailNetwork is the immutable, static topology the Oracle plans over.
type RailNetwork struct {
	checkpoints map[CheckpointId]checkpoint
	segments    map[SegmentId]Segment
	segmentOf   map[[2]CheckpointId]SegmentId
	longestPath int
}

// New builds the baseline deployment topology: 8 checkpoints, 10 segments,
// 4 turnout actuators, longest_path = 6.
func New() *RailNetwork {
	n := &RailNetwork{
		checkpoints: map[CheckpointId]checkpoint{
			Checkpoint1: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint2},
					protocol.Backward: {Checkpoint6},
				},
			},
			Checkpoint2: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint3},
					protocol.Backward: {Checkpoint1, Station1},
				},
			},
			Checkpoint3: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint4, Station2},
					protocol.Backward: {Checkpoint2},
				},
			},
			Checkpoint4: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint5},
					protocol.Backward: {Checkpoint3},
				},
			},
			Checkpoint5: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint6},
					protocol.Backward: {Checkpoint4, Station2},
				},
			},
			Checkpoint6: {
				trackId:  Track1,
				priority: Priority0,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint1, Station1},
					protocol.Backward: {Checkpoint5},
				},
			},
			Station1: {
				trackId:  TrackStation1,
				priority: Priority1,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint2},
					protocol.Backward: {Checkpoint6},
				},
			},
			Station2: {
				trackId:  TrackStation2,
				priority: Priority1,
				neighbors: map[protocol.Direction][]CheckpointId{
					protocol.Forward:  {Checkpoint5},
					protocol.Backward: {Checkpoint3},
				},
			},
		},
		segments: map[SegmentId]Segment{
			Segment1: {
				Priority:           Priority0,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails2, protocol.Direct}},
				Conflicts:          []SegmentId{Segment8},
			},
			Segment2: {
				Priority: Priority0,
			},
			Segment3: {
				Priority:           Priority0,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails3, protocol.Direct}},
				Conflicts:          []SegmentId{Segment9},
			},
			Segment4: {
				Priority:           Priority0,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails4, protocol.Direct}},
				Conflicts:          []SegmentId{Segment10},
			},
			Segment5: {
				Priority: Priority0,
			},
			Segment6: {
				Priority:           Priority0,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails1, protocol.Direct}},
				Conflicts:          []SegmentId{Segment7},
			},
			Segment7: {
				Priority:           Priority1,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails1, protocol.Diverted}},
				Conflicts:          []SegmentId{Segment6},
			},
			Segment8: {
				Priority:           Priority1,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails2, protocol.Diverted}},
				Conflicts:          []SegmentId{Segment1},
			},
			Segment9: {
				Priority:           Priority1,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails3, protocol.Diverted}},
				Conflicts:          []SegmentId{Segment3},
			},
			Segment10: {
				Priority:           Priority1,
				SwitchRequirements: []SwitchRequirement{{protocol.SwitchRails4, protocol.Diverted}},
				Conflicts:          []SegmentId{Segment4},
			},
		},
		longestPath: 6,
	}

	n.segmentOf = map[[2]CheckpointId]SegmentId{
		{Checkpoint1, Checkpoint2}: Segment1,
		{Checkpoint2, Checkpoint1}: Segment1,
		{Checkpoint2, Checkpoint3}: Segment2,
		{Checkpoint3, Checkpoint2}: Segment2,
		{Checkpoint3, Checkpoint4}: Segment3,
		{Checkpoint4, Checkpoint3}: Segment3,
		{Checkpoint4, Checkpoint5}: Segment4,
		{Checkpoint5, Checkpoint4}: Segment4,
		{Checkpoint5, Checkpoint6}: Segment5,
		{Checkpoint6, Checkpoint5}: Segment5,
		{Checkpoint6, Checkpoint1}: Segment6,
		{Checkpoint1, Checkpoint6}: Segment6,
		{Checkpoint6, Station1}:    Segment7,
		{Station1, Checkpoint6}:    Segment7,
		{Station1, Checkpoint2}:    Segment8,
		{Checkpoint2, Station1}:    Segment8,
		{Checkpoint3, Station2}:    Segment9,
		{Station2, Checkpoint3}:    Segment9,
		{Checkpoint5, Station2}:    Segment10,
		{Station2, Checkpoint5}:    Segment10,
	}

	return n
}

// LongestPath is the depth bound the path searches apply.
func (n *RailNetwork) LongestPath() int { return n.longestPath }

// Segment returns the Segment for id. Baseline ids are always present.
func (n *RailNetwork) Segment(id SegmentId) Segment {
	return n.segments[id]
}

// Neighbors returns cp's ordered neighbor list in direction dir.
func (n *RailNetwork) Neighbors(cp CheckpointId, dir protocol.Direction) []CheckpointId {
	out := make([]CheckpointId, len(n.checkpoints[cp].neighbors[dir]))
	copy(out, n.checkpoints[cp].neighbors[dir])
	return out
}

// TrackOf returns the TrackId a checkpoint belongs to.
func (n *RailNetwork) TrackOf(cp CheckpointId) TrackId {
	return n.checkpoints[cp].trackId
}

// SegmentOf returns the unique SegmentId spanning a and b. Symmetric in
// its two arguments.
func (n *RailNetwork) SegmentOf(a, b CheckpointId) (SegmentId, error) {
	id, ok := n.segmentOf[[2]CheckpointId{a, b}]
	if !ok {
		return 0, NoSuchSegmentError{A: a, B: b}
	}
	return id, nil
}

func (n *RailNetwork) sortByPriority(ids []CheckpointId) {
	sort.SliceStable(ids, func(i, j int) bool {
		return n.checkpoints[ids[i]].priority < n.checkpoints[ids[j]].priority
	})
}

// NextCheckpointForTrack is the best-first, depth-first search: it returns
// the neighbor of cur in dir that starts a path of length <= LongestPath()
// reaching any checkpoint on targetTrack, or false if none does.
func (n *RailNetwork) NextCheckpointForTrack(cur CheckpointId, dir protocol.Direction, targetTrack TrackId) (CheckpointId, bool) {
	return n.nextForTrack(0, cur, dir, targetTrack)
}

func (n *RailNetwork) nextForTrack(depth int, cur CheckpointId, dir protocol.Direction, targetTrack TrackId) (CheckpointId, bool) {
	neighbors := n.Neighbors(cur, dir)

	for _, next := range neighbors {
		if n.checkpoints[next].trackId == targetTrack {
			return next, true
		}
	}

	n.sortByPriority(neighbors)

	for _, next := range neighbors {
		if depth >= n.longestPath {
			return 0, false
		}
		if _, ok := n.nextForTrack(depth+1, next, dir, targetTrack); ok {
			return next, true
		}
	}

	return 0, false
}

// NextCheckpointForCheckpoint is identical to NextCheckpointForTrack except
// the base case is reaching targetCp exactly.
func (n *RailNetwork) NextCheckpointForCheckpoint(cur CheckpointId, dir protocol.Direction, targetCp CheckpointId) (CheckpointId, bool) {
	return n.nextForCheckpoint(0, cur, dir, targetCp)
}

func (n *RailNetwork) nextForCheckpoint(depth int, cur CheckpointId, dir protocol.Direction, targetCp CheckpointId) (CheckpointId, bool) {
	neighbors := n.Neighbors(cur, dir)

	for _, next := range neighbors {
		if next == targetCp {
			return next, true
		}
	}

	n.sortByPriority(neighbors)

	for _, next := range neighbors {
		if depth >= n.longestPath {
			return 0, false
		}
		if _, ok := n.nextForCheckpoint(depth+1, next, dir, targetCp); ok {
			return next, true
		}
	}

	return 0, false
}
