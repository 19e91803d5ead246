package store

// Keys of the persisted slots. Each one is independent; there is no
// cross-key transaction.
const (
	KeyPainLog         = "painlog"
	KeySessions        = "sessions"
	KeyStage           = "stage"
	KeyStageStart      = "stage_start"
	KeySettings        = "settings"
	KeyIntensity       = "intensity"
	KeyStartDate       = "start_date"
	KeyWarnDismissed   = "warn_dismissed"
	KeyDarkMode        = "dark_mode"
	KeyReminderEnabled = "reminder_enabled"
)
