package ephy

type errEphy uint8

// Errors returned by interface configuration and driver lookup.
const (
	_              errEphy = iota // non-initialized err
	ErrNoMAC                      // nil MAC collaborator
	ErrNoEventSink                // nil event sink
	ErrNoDriver                   // no driver registered under name
	ErrShortBuffer                // buffer too short
	ErrNoPHYFound                 // no PHY found on bus
)

func (err errEphy) Error() string {
	switch err {
	case ErrNoMAC:
		return "nil MAC collaborator"
	case ErrNoEventSink:
		return "nil event sink"
	case ErrNoDriver:
		return "no driver registered under name"
	case ErrShortBuffer:
		return "buffer too short"
	case ErrNoPHYFound:
		return "no PHY found on bus"
	}
	return "unknown ephy error"
}
