// Package formdata loads the weekly job-search log data from YAML.
package formdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ContactSlots is the number of contact rows on the form. The form has
// exactly three; inputs may provide fewer.
const ContactSlots = 3

// Contact is one job-search contact or activity row.
type Contact struct {
	Date           string `yaml:"date"`
	JobTitleOrRef  string `yaml:"job_title_or_ref"`
	Employer       string `yaml:"employer"`
	Address        string `yaml:"address"`
	City           string `yaml:"city"`
	State          string `yaml:"state"`
	WebsiteOrEmail string `yaml:"website_or_email"`
	Phone          string `yaml:"phone"`
	Kind           string `yaml:"kind"`
	ContactMethod  string `yaml:"contact_method"`
	ContactType    string `yaml:"contact_type"`
	WhatActivity   string `yaml:"what_activity"`
	Documentation  string `yaml:"documentation"`
	OfficeName     string `yaml:"office_name"`
}

// NeedsEnrichment reports whether any lookup-fillable field is empty.
func (c *Contact) NeedsEnrichment() bool {
	return c.Address == "" || c.City == "" || c.State == "" ||
		c.WebsiteOrEmail == "" || c.Phone == ""
}

// Week is one weekly log: the header fields plus up to three contacts.
type Week struct {
	WeekEnding string    `yaml:"week_ending"`
	Name       string    `yaml:"name"`
	IDOrSSN    string    `yaml:"id_or_ssn"`
	Contacts   []Contact `yaml:"contacts"`
}

// Load reads weekly data from a YAML file.
//
// Up to three contacts are accepted; the form has no rows for more.
func Load(path string) (*Week, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var week Week
	if err := yaml.Unmarshal(content, &week); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	if len(week.Contacts) > ContactSlots {
		return nil, fmt.Errorf("too many contacts: %d (the form has %d rows)", len(week.Contacts), ContactSlots)
	}

	return &week, nil
}

// Contact returns the contact for a 1-based slot index, or nil if the
// input provided fewer contacts than that.
func (w *Week) Contact(index int) *Contact {
	if index < 1 || index > len(w.Contacts) {
		return nil
	}
	return &w.Contacts[index-1]
}
