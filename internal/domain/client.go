package domain

import "time"

type Client struct {
	ID                int32           `json:"id"`
	FullName          string          `json:"full_name"`
	PhoneNumber       string          `json:"phone_number"`
	PassportNumber    string          `json:"passport_number"`
	PassportIssuedBy  string          `json:"passport_issued_by"`
	PassportIssueDate *time.Time      `json:"passport_issue_date,omitempty"`
	HowDidYouFindUs   DiscoverySource `json:"how_did_you_find_us"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewClientFromApplication builds the client record created the first time a
// phone number is seen.
func NewClientFromApplication(app *RentalApplication) *Client {
	c := &Client{PhoneNumber: app.PhoneNumber}
	c.SyncFromApplication(app)
	return c
}

// SyncFromApplication copies every non-empty application value that differs
// from the stored one. Data only flows from the application to the client.
func (c *Client) SyncFromApplication(app *RentalApplication) bool {
	changed := false
	if app.FullName != "" && app.FullName != c.FullName {
		c.FullName = app.FullName
		changed = true
	}
	if app.PassportNumber != "" && app.PassportNumber != c.PassportNumber {
		c.PassportNumber = app.PassportNumber
		changed = true
	}
	if app.PassportIssuedBy != "" && app.PassportIssuedBy != c.PassportIssuedBy {
		c.PassportIssuedBy = app.PassportIssuedBy
		changed = true
	}
	if app.PassportIssueDate != nil && (c.PassportIssueDate == nil || !app.PassportIssueDate.Equal(*c.PassportIssueDate)) {
		d := *app.PassportIssueDate
		c.PassportIssueDate = &d
		changed = true
	}
	if app.HowDidYouFindUs != "" && app.HowDidYouFindUs != c.HowDidYouFindUs {
		c.HowDidYouFindUs = app.HowDidYouFindUs
		changed = true
	}
	return changed
}
