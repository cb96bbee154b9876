package entity

import "strings"

// Region is a regional filter list that can be enabled per UUID.
type Region struct {
	UUID  string   `yaml:"uuid" json:"uuid"`
	Title string   `yaml:"title" json:"title"`
	URL   string   `yaml:"url" json:"url,omitempty"`
	Langs []string `yaml:"langs" json:"langs,omitempty"`
}

// Key returns the UUID in the canonical casing used for resource ids.
func (r Region) Key() string {
	return strings.ToUpper(r.UUID)
}
