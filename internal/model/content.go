package model

// SectionID identifies a navigable topic of marketing content.
type SectionID string

const (
	SectionNone    SectionID = ""
	SectionHome    SectionID = "home"
	SectionMBSE    SectionID = "mbse"
	SectionRave    SectionID = "rave"
	SectionManus   SectionID = "manus"
	SectionAbout   SectionID = "about"
	SectionBooking SectionID = "booking"
)

// ContentEntry is the copy displayed for a section: a title and an
// ordered list of paragraphs.
type ContentEntry struct {
	Title string   `json:"title" yaml:"title"`
	Body  []string `json:"body" yaml:"body"`
}

// Sections lists every navigable section in display order.
var Sections = []SectionID{
	SectionHome,
	SectionMBSE,
	SectionRave,
	SectionManus,
	SectionAbout,
	SectionBooking,
}

// Valid reports whether id belongs to the closed set of sections.
func (id SectionID) Valid() bool {
	for _, s := range Sections {
		if s == id {
			return true
		}
	}
	return false
}
