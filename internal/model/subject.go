package model

import (
	"strings"
	"time"
)

// Subject is the contact and company pair being researched.
type Subject struct {
	ID             string    `json:"id"`
	ContactName    string    `json:"contact_name"`
	ContactTitle   string    `json:"contact_title,omitempty"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	ContactPhone   string    `json:"contact_phone,omitempty"`
	LinkedInURL    string    `json:"linkedin_url,omitempty"`
	CompanyName    string    `json:"company_name"`
	CompanyWebsite string    `json:"company_website,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// FirstName returns the first whitespace-delimited token of the contact name.
func (s Subject) FirstName() string {
	parts := strings.Fields(s.ContactName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// EmailDomain returns the lowercased domain part of the contact email.
func (s Subject) EmailDomain() string {
	at := strings.LastIndex(s.ContactEmail, "@")
	if at < 0 || at == len(s.ContactEmail)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s.ContactEmail[at+1:]))
}
