// Package session carries the signed-in user's profile through the catalog.
package session

import "time"

type Session struct {
	UserName  string
	AvatarURL string
	// Location is used for the greeting; nil means time.Local.
	Location *time.Location
}

func New(userName, avatarURL string) *Session {
	return &Session{UserName: userName, AvatarURL: avatarURL}
}

// Greeting returns the salutation for the hour of now in the session's location.
func (s *Session) Greeting(now time.Time) string {
	loc := time.Local
	if s != nil && s.Location != nil {
		loc = s.Location
	}
	return greetingForHour(now.In(loc).Hour())
}

func greetingForHour(hour int) string {
	switch {
	case hour < 12:
		return "Good Morning"
	case hour < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
