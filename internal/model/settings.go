package model

// Settings holds a user's preference flags, keyed by email in the stores.
//
// MotionEnabled controls whether the client-side motion detector publishes
// events. It defaults to true for users who have never toggled it — the
// absence of a record means "enabled", not "disabled".
type Settings struct {
	MotionEnabled bool `json:"motion_enabled" db:"motion_enabled"`
}

// DefaultSettings returns the settings applied when no record exists yet.
func DefaultSettings() Settings {
	return Settings{MotionEnabled: true}
}
