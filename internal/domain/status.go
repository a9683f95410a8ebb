package domain

import "fmt"

// LifecycleStatus tags a projection year with the household's position in the
// accumulation/decumulation lifecycle. The set is closed; the zero value is invalid.
type LifecycleStatus int

const (
	StatusAccumulating LifecycleStatus = iota + 1
	StatusFiReached
	StatusRetired
	StatusDepleted
)

// String returns the wire name of the status.
func (s LifecycleStatus) String() string {
	switch s {
	case StatusAccumulating:
		return "accumulating"
	case StatusFiReached:
		return "fi_reached"
	case StatusRetired:
		return "retired"
	case StatusDepleted:
		return "depleted"
	}
	return fmt.Sprintf("LifecycleStatus(%d)", int(s))
}

// Valid reports whether s is one of the four known statuses.
func (s LifecycleStatus) Valid() bool {
	return s >= StatusAccumulating && s <= StatusDepleted
}

// Terminal reports whether no further projection rows may follow s.
func (s LifecycleStatus) Terminal() bool {
	return s == StatusDepleted
}

// CanTransition reports whether a projection may move from s to next.
// Statuses only move forward; Depleted may follow any state and ends the path.
func (s LifecycleStatus) CanTransition(next LifecycleStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == StatusDepleted {
		return false
	}
	return next >= s
}

// ParseLifecycleStatus converts a wire name into a LifecycleStatus.
func ParseLifecycleStatus(v string) (LifecycleStatus, error) {
	switch v {
	case "accumulating":
		return StatusAccumulating, nil
	case "fi_reached":
		return StatusFiReached, nil
	case "retired":
		return StatusRetired, nil
	case "depleted":
		return StatusDepleted, nil
	}
	return 0, fmt.Errorf("unknown lifecycle status %q", v)
}

func (s LifecycleStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid lifecycle status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *LifecycleStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseLifecycleStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
