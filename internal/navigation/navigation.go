// Package navigation tracks which section the overlay shows.
//
// Closing the overlay resets the active section.  Re-opening always goes
// through Select, so the overlay never shows a section the visitor did not
// pick in the current gesture.
package navigation

import "github.com/iliyamo/raveworks-booking/internal/model"

// State is the navigation state of one visitor.  It is not safe for
// concurrent use; the owning session serializes access.
type State struct {
	active  model.SectionID
	visible bool
}

// Snapshot is a value copy of State handed to renderers.
type Snapshot struct {
	ActiveSection  model.SectionID `json:"active_section,omitempty"`
	OverlayVisible bool            `json:"overlay_visible"`
}

// New returns a closed overlay with no active section.
func New() *State { return &State{} }

// Select opens the overlay on section.  Selecting the section that is
// already open leaves the state unchanged.
func (s *State) Select(section model.SectionID) {
	s.active = section
	s.visible = true
}

// Close hides the overlay and clears the active section.
func (s *State) Close() {
	s.active = model.SectionNone
	s.visible = false
}

// Cancel handles the escape gesture.  It ends in the same state as Close.
func (s *State) Cancel() { s.Close() }

// IsOpen reports whether the overlay is visible.
func (s *State) IsOpen() bool { return s.visible }

// Current returns the active section, or false when none is selected.
func (s *State) Current() (model.SectionID, bool) {
	return s.active, s.active != model.SectionNone
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{ActiveSection: s.active, OverlayVisible: s.visible}
}
