package types

// StoreState represents the initialization state of a storage file.
type StoreState int

const (
	StateMissing       StoreState = iota // File doesn't exist
	StateUninitialized                   // File exists but holds none of the tables
	StatePartial                         // Some tables are missing
	StateConflict                        // A table exists with an incompatible shape
	StateReady                           // All tables present and compatible
)

var storeStateNames = map[StoreState]string{
	StateMissing:       "missing",
	StateUninitialized: "uninitialized",
	StatePartial:       "partial",
	StateConflict:      "conflict",
	StateReady:         "ready",
}

// String returns the lower-case name of the state.
func (s StoreState) String() string {
	if name, ok := storeStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name so JSON output stays readable.
func (s StoreState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
