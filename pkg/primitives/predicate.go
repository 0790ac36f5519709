package primitives

// Predicate is a binary comparison operator of the expression language.
type Predicate int

const (
	Equals Predicate = iota
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	NotEqual
	Like
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	case NotEqual:
		return "<>"
	case Like:
		return "LIKE"
	default:
		return "UNKNOWN"
	}
}

// FromOrdering maps a three-way comparison result onto the predicate outcome.
// Like has no ordering meaning and reports false.
func (p Predicate) FromOrdering(c int) bool {
	switch p {
	case Equals:
		return c == 0
	case LessThan:
		return c < 0
	case GreaterThan:
		return c > 0
	case LessThanOrEqual:
		return c <= 0
	case GreaterThanOrEqual:
		return c >= 0
	case NotEqual:
		return c != 0
	default:
		return false
	}
}
