package constants

import "time"

const (
	// Shift boundaries as offsets from midnight. Morning and afternoon
	// include both ends; night covers the rest of the day.
	MorningShiftStart   = 6 * time.Hour
	AfternoonShiftStart = 12 * time.Hour
	NightShiftStart     = 18 * time.Hour

	// Quiet period after the last log write before a watched dataset reloads
	WatchDebounce = 2 * time.Second

	// Dataset folders listed by default
	DefaultFolderLimit = 7
)
