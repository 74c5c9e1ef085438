// Package oracle implements the Oracle (C5): the tick loop that reads every
// locomotive's status, plans one step of progress toward its intent while
// avoiding segment conflicts, and issues the resulting switch and speed
// commands.
package oracle

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dededodu/loco-controller/pkgs/protocol"
	"github.com/dededodu/loco-controller/pkgs/railnetwork"
	"github.com/dededodu/loco-controller/pkgs/registry"
)

// TickInterval is the pause between ticks when the Oracle is running its
// own loop via Run.
const TickInterval = 10 * time.Millisecond

// NextCheckpointNotFoundError means a path search exhausted the network's
// longest-path bound without reaching the locomotive's target.
type NextCheckpointNotFoundError struct {
	LocoId   protocol.LocoId
	Location railnetwork.CheckpointId
}

func (e NextCheckpointNotFoundError) Error() string {
	return fmt.Sprintf("no next checkpoint found for %s from %s", e.LocoId, e.Location)
}

type activeLoco struct {
	id       protocol.LocoId
	speed    protocol.Speed
	location *railnetwork.CheckpointId
	intent   *registry.LocoIntent
}

type activeSegment struct {
	id        railnetwork.SegmentId
	hasId     bool
	segment   railnetwork.Segment
	direction protocol.Direction
	locoId    protocol.LocoId
}

type actuatorControl struct {
	id    protocol.ActuatorId
	typ   protocol.ActuatorType
	state byte
}

type locoControl struct {
	id    protocol.LocoId
	dir   protocol.Direction
	speed protocol.Speed
}

// Oracle owns the plan-and-command tick. It is not safe for concurrent use
// by more than one goroutine; only Run or a sequence of Process calls from
// a single goroutine is supported, matching the single-tick-loop design.
type Oracle struct {
	reg           *registry.Registry
	network       *railnetwork.RailNetwork
	lastSegmentId map[protocol.LocoId]railnetwork.SegmentId
}

// New builds an Oracle bound to reg and the baseline rail network.
func New(reg *registry.Registry) *Oracle {
	logrus.Debug("oracle.New()")
	return &Oracle{
		reg:           reg,
		network:       railnetwork.New(),
		lastSegmentId: make(map[protocol.LocoId]railnetwork.SegmentId),
	}
}

// Run loops Process with TickInterval pauses until stop is closed.
func (o *Oracle) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := o.Process(); err != nil {
				logrus.Errorf("oracle: tick aborted: %s", err)
			}
		}
	}
}

// Process runs exactly one tick. It is a no-op when the registry's
// oracle_enabled flag is false.
func (o *Oracle) Process() error {
	if !o.reg.OracleEnabled() {
		return nil
	}

	segments, err := o.determineActiveSegments()
	if err != nil {
		return err
	}
	sorted := o.sortActiveSegments(segments)
	actuatorControls, locoControls := o.determineControls(sorted)

	for _, c := range actuatorControls {
		if err := o.reg.DriveActuator(c.id, c.typ, c.state); err != nil {
			return fmt.Errorf("driving actuator %d: %w", c.id, err)
		}
	}
	for _, c := range locoControls {
		if err := o.reg.ControlLoco(c.id, c.dir, c.speed); err != nil {
			return fmt.Errorf("controlling %s: %w", c.id, err)
		}
	}
	return nil
}

func (o *Oracle) activeLocos() ([]activeLoco, error) {
	var active []activeLoco
	for _, id := range o.reg.LocoIds() {
		status, err := o.reg.LocoStatus(id)
		if err != nil {
			if _, ok := err.(registry.NotConnectedError); ok {
				continue
			}
			return nil, fmt.Errorf("loco status for %s: %w", id, err)
		}
		active = append(active, activeLoco{
			id:       id,
			speed:    status.Speed,
			location: status.Location,
			intent:   status.Intent,
		})
	}
	return active, nil
}

func (o *Oracle) determineActiveSegments() ([]activeSegment, error) {
	active, err := o.activeLocos()
	if err != nil {
		return nil, err
	}

	var busy []railnetwork.CheckpointId
	for _, loco := range active {
		if loco.location != nil && loco.speed == protocol.SpeedStop {
			busy = append(busy, *loco.location)
		}
	}
	isBusy := func(cp railnetwork.CheckpointId) bool {
		for _, b := range busy {
			if b == cp {
				return true
			}
		}
		return false
	}

	var segments []activeSegment
	for _, loco := range active {
		if loco.location == nil || loco.intent == nil {
			continue
		}
		location := *loco.location
		intent := *loco.intent

		var nextCp railnetwork.CheckpointId
		var direction protocol.Direction
		var ok bool

		switch intent.Kind {
		case registry.IntentDrive:
			direction = intent.Direction
			nextCp, ok = o.network.NextCheckpointForTrack(location, direction, intent.TrackId)
			if !ok {
				return nil, NextCheckpointNotFoundError{LocoId: loco.id, Location: location}
			}
		case registry.IntentStop:
			direction = intent.Direction
			if intent.CheckpointId == location {
				segments = append(segments, activeSegment{direction: direction, locoId: loco.id})
				continue
			}
			nextCp, ok = o.network.NextCheckpointForCheckpoint(location, direction, intent.CheckpointId)
			if !ok {
				return nil, NextCheckpointNotFoundError{LocoId: loco.id, Location: location}
			}
		}

		if isBusy(nextCp) {
			segments = append(segments, activeSegment{direction: direction, locoId: loco.id})
			continue
		}

		segId, err := o.network.SegmentOf(location, nextCp)
		if err != nil {
			return nil, err
		}
		segments = append(segments, activeSegment{
			id:        segId,
			hasId:     true,
			segment:   o.network.Segment(segId),
			direction: direction,
			locoId:    loco.id,
		})
	}

	return segments, nil
}

// sortActiveSegments reorders so a locomotive already occupying a segment
// (per lastSegmentId) is placed ahead of another about to enter the same
// segment, then stable-sorts by priority with null segments sorting last.
func (o *Oracle) sortActiveSegments(segments []activeSegment) []activeSegment {
	var sorted []activeSegment
	for _, seg := range segments {
		insertAt := -1
		if seg.hasId {
			if last, ok := o.lastSegmentId[seg.locoId]; ok && last == seg.id {
				for i, s := range sorted {
					if s.hasId && s.id == seg.id && s.id == last {
						insertAt = i
						break
					}
				}
			}
		}
		if insertAt >= 0 {
			sorted = append(sorted, activeSegment{})
			copy(sorted[insertAt+1:], sorted[insertAt:])
			sorted[insertAt] = seg
		} else {
			sorted = append(sorted, seg)
		}
	}

	priorityOf := func(s activeSegment) railnetwork.SegmentPriority {
		if !s.hasId {
			return railnetwork.Priority2
		}
		return s.segment.Priority
	}
	stableSortByPriority(sorted, priorityOf)
	return sorted
}

func stableSortByPriority(segments []activeSegment, priorityOf func(activeSegment) railnetwork.SegmentPriority) {
	for i := 1; i < len(segments); i++ {
		j := i
		for j > 0 && priorityOf(segments[j-1]) > priorityOf(segments[j]) {
			segments[j-1], segments[j] = segments[j], segments[j-1]
			j--
		}
	}
}

func (o *Oracle) determineControls(segments []activeSegment) ([]actuatorControl, []locoControl) {
	var actuatorControls []actuatorControl
	var locoControls []locoControl
	var busySegments []railnetwork.SegmentId

	isBusySeg := func(id railnetwork.SegmentId) bool {
		for _, b := range busySegments {
			if b == id {
				return true
			}
		}
		return false
	}

	for _, seg := range segments {
		if seg.hasId && !isBusySeg(seg.id) && !conflictsAny(seg.segment, busySegments) {
			for _, req := range seg.segment.SwitchRequirements {
				actuatorControls = append(actuatorControls, actuatorControl{
					id:    req.ActuatorId,
					typ:   protocol.ActuatorTypeSwitchRails,
					state: req.State.Encode(),
				})
			}
			locoControls = append(locoControls, locoControl{id: seg.locoId, dir: seg.direction, speed: protocol.SpeedNormal})
			busySegments = append(busySegments, seg.id)
			o.lastSegmentId[seg.locoId] = seg.id
			continue
		}
		locoControls = append(locoControls, locoControl{id: seg.locoId, dir: seg.direction, speed: protocol.SpeedStop})
	}

	return actuatorControls, locoControls
}

func conflictsAny(seg railnetwork.Segment, busy []railnetwork.SegmentId) bool {
	for _, b := range busy {
		if seg.ConflictsWith(b) {
			return true
		}
	}
	return false
}
