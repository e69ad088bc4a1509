package formstate

import "fmt"

// Pristine tracks how far a field has progressed through user interaction.
type Pristine uint8

const (
	// Untouched fields were registered but never changed.
	Untouched Pristine = iota
	// Touched fields changed but were not committed (for example by a blur),
	// so they never trigger validation.
	Touched
	// Committed fields validate on every update.
	Committed
)

func (p Pristine) String() string {
	switch p {
	case Untouched:
		return "untouched"
	case Touched:
		return "touched"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("pristine(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pristine) MarshalText() ([]byte, error) {
	if p > Committed {
		return nil, fmt.Errorf("formstate: invalid pristine state %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pristine) UnmarshalText(text []byte) error {
	switch string(text) {
	case "untouched", "":
		*p = Untouched
	case "touched":
		*p = Touched
	case "committed":
		*p = Committed
	default:
		return fmt.Errorf("formstate: unknown pristine state %q", text)
	}
	return nil
}
