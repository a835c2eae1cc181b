package status

type Status = int32

const (
	Pending Status = iota
	Queued
	Uploading
	Paused
	Completed
	Failed
	Cancelled
)

// IsTerminal reports whether no further transition can happen without an
// explicit retry. Failed counts as terminal until the user retries it.
func IsTerminal(s Status) bool {
	return s == Completed || s == Failed || s == Cancelled
}

func String(s Status) string {
	switch s {
	case Pending:
		return "Pending"
	case Queued:
		return "Queued"
	case Uploading:
		return "Uploading"
	case Paused:
		return "Paused"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
