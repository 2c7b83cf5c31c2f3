// Package clicks counts short URL redirects outside the request path.
package clicks

import "time"

// TopicURLClicked is the stream topic click events are published to.
const TopicURLClicked = "url.clicked"

// Event represents a single resolved redirect.
type Event struct {
	URLID     string    `json:"urlId"`
	Code      string    `json:"code"`
	ClickedAt time.Time `json:"clickedAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
