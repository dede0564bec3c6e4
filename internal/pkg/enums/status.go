package enums

// Status is the lifecycle state of a fixture as reported by a source.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
)

// IsValid checks if status is one of the known values
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished:
		return true
	default:
		return false
	}
}

// String returns string representation
func (s Status) String() string {
	return string(s)
}
