package domain

// LookupStatus discriminates the variants of RoadLookupResult.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupError:
		return "error"
	default:
		return "not_found"
	}
}

// RoadLookupResult is the outcome of one reverse-geocoding lookup:
// Found(RoadName), NotFound or Error(Message).
type RoadLookupResult struct {
	Status   LookupStatus
	RoadName string
	Message  string
}

func RoadFound(name string) RoadLookupResult {
	return RoadLookupResult{Status: LookupFound, RoadName: name}
}

func RoadNotFound() RoadLookupResult {
	return RoadLookupResult{Status: LookupNotFound}
}

func RoadLookupFailed(message string) RoadLookupResult {
	return RoadLookupResult{Status: LookupError, Message: message}
}

func (r RoadLookupResult) Found() bool { return r.Status == LookupFound }
