// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package models

import "time"

// Platform identifies the social network a post was published on.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"

	// PlatformUnknown is the sentinel for records without a platform value.
	PlatformUnknown Platform = "unknown"
)

// KnownPlatforms lists the platform values accepted on prediction input.
var KnownPlatforms = []Platform{
	PlatformInstagram,
	PlatformYouTube,
	PlatformTwitter,
	PlatformFacebook,
}

// IsKnown reports whether p is one of the supported platform values.
func (p Platform) IsKnown() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTwitter, PlatformFacebook:
		return true
	default:
		return false
	}
}

// PostRecord is one historical social-media post as produced by the scrapers.
//
// All numeric fields default to 0 when the upstream source omitted them; a
// zero UploadDate means the timestamp was absent or unparseable. Consumers
// must treat those defaults as "no data", never as an error condition.
type PostRecord struct {
	Platform   Platform  `json:"platform"`
	Username   string    `json:"username"`
	Caption    string    `json:"caption,omitempty"`
	Likes      float64   `json:"likes"`
	Comments   float64   `json:"comments"`
	Views      float64   `json:"views"`
	Followers  float64   `json:"followers,omitempty"`
	Shares     float64   `json:"shares,omitempty"`
	UploadDate time.Time `json:"upload_date,omitempty"`
	PostURL    string    `json:"post_url,omitempty"`
}

// Engagement returns the combined likes+comments signal for this post.
func (p *PostRecord) Engagement() float64 {
	return p.Likes + p.Comments
}

// PlatformOrUnknown returns the record's platform, substituting the
// unknown sentinel for an empty value.
func (p *PostRecord) PlatformOrUnknown() Platform {
	if p.Platform == "" {
		return PlatformUnknown
	}
	return p.Platform
}
