package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/raveworks-booking/internal/catalog"
	"github.com/iliyamo/raveworks-booking/internal/model"
)

func TestLookup_IsTotal(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	ids := append([]model.SectionID{}, model.Sections...)
	ids = append(ids, "", "nope", "ABOUT", "central", "raves", "book", "../../etc/passwd")
	for _, id := range ids {
		e := c.Lookup(id)
		assert.NotEmpty(t, e.Title, "section %q", id)
		assert.NotEmpty(t, e.Body, "section %q", id)
	}
}

func TestLookup_KnownSectionsAndAliases(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	assert.Equal(t, "SysML Model-Based Systems Engineering", c.Lookup(model.SectionMBSE).Title)
	assert.Equal(t, "RAVE Technology", c.Lookup("raves").Title)
	assert.Equal(t, "Book a Consultation", c.Lookup("book").Title)
	assert.Equal(t, c.Lookup(model.SectionHome), c.Lookup("central"))

	// about has no copy of its own and falls back to the default entry.
	assert.Equal(t, c.Default(), c.Lookup(model.SectionAbout))
	assert.Equal(t, c.Default(), c.Lookup("unknown"))
}

func TestNormalize(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	assert.Equal(t, model.SectionHome, c.Normalize(" Central "))
	assert.Equal(t, model.SectionBooking, c.Normalize("book"))
	assert.Equal(t, model.SectionMBSE, c.Normalize("MBSE"))
	assert.Equal(t, model.SectionID("elsewhere"), c.Normalize("elsewhere"))
}

func TestListServices_OrderAndCopies(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	services := c.ListServices()
	require.Len(t, services, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{services[0].ID, services[1].ID, services[2].ID})
	assert.Equal(t, "Initial Consultation", services[0].Name)
	assert.Equal(t, 200, services[0].Price)
	assert.Equal(t, 800, services[1].Price)
	assert.Equal(t, 1500, services[2].Price)

	services[0].Name = "changed"
	services[0].Features[0] = "changed"
	again, ok := c.Service(1)
	require.True(t, ok)
	assert.Equal(t, "Initial Consultation", again.Name)
	assert.Equal(t, "Requirements assessment", again.Features[0])
}

func TestService_Membership(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	assert.True(t, c.Contains(2))
	assert.False(t, c.Contains(42))
	_, ok := c.Service(0)
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no default title", "default: {title: ''}\n"},
		{"duplicate service", "default: {title: x}\nservices: [{id: 1, price: 1}, {id: 1, price: 2}]\n"},
		{"negative price", "default: {title: x}\nservices: [{id: 1, price: -5}]\n"},
		{"unknown section", "default: {title: x}\nsections: {blog: {title: b}}\n"},
		{"bad alias", "default: {title: x}\naliases: {b: blog}\n"},
		{"untitled section", "default: {title: x}\nsections: {home: {title: ''}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.data))
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func TestParse_SuccessFallsBackToDefault(t *testing.T) {
	c, err := catalog.Parse([]byte("default: {title: Hello, body: [hi]}\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello", c.Success().Title)
	assert.Empty(t, c.ListServices())
}
