package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/raveworks-booking/internal/model"
	"github.com/iliyamo/raveworks-booking/internal/navigation"
)

func TestNew_StartsClosed(t *testing.T) {
	s := navigation.New()
	assert.False(t, s.IsOpen())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, navigation.Snapshot{}, s.Snapshot())
}

func TestSelect_Idempotent(t *testing.T) {
	for _, id := range model.Sections {
		s := navigation.New()
		s.Select(id)
		first := s.Snapshot()
		s.Select(id)
		assert.Equal(t, first, s.Snapshot())
		assert.Equal(t, navigation.Snapshot{ActiveSection: id, OverlayVisible: true}, first)
	}
}

func TestSelect_SwitchesSection(t *testing.T) {
	s := navigation.New()
	s.Select(model.SectionMBSE)
	s.Select(model.SectionRave)
	cur, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, model.SectionRave, cur)
	assert.True(t, s.IsOpen())
}

func TestClose_ResetsSection(t *testing.T) {
	s := navigation.New()
	s.Select(model.SectionBooking)
	s.Close()
	assert.False(t, s.IsOpen())
	_, ok := s.Current()
	assert.False(t, ok)

	// closing twice is harmless
	s.Close()
	assert.Equal(t, navigation.Snapshot{}, s.Snapshot())
}

func TestCancel_MatchesClose(t *testing.T) {
	closed := navigation.New()
	closed.Select(model.SectionManus)
	closed.Close()

	escaped := navigation.New()
	escaped.Select(model.SectionManus)
	escaped.Cancel()

	assert.Equal(t, closed.Snapshot(), escaped.Snapshot())
}
