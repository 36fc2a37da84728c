package importer

// Status is the terminal outcome of processing one document.
type Status int

const (
	StatusSuccess Status = iota
	StatusRejected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "IMPORTED"
	case StatusRejected:
		return "REJECTED"
	case StatusError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// FilterStatus is the aggregate outcome of one handler-chain run:
// pass, or rejection with a human-readable description naming the
// cause.
type FilterStatus struct {
	Status      Status
	Description string
}

// passStatus is the single immutable success value; chains that do not
// reject all share it.
var passStatus = FilterStatus{Status: StatusSuccess}

func (fs FilterStatus) Passed() bool {
	return fs.Status == StatusSuccess
}

func (fs FilterStatus) Rejected() bool {
	return fs.Status == StatusRejected
}
