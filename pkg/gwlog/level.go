package gwlog

// Level is a logging severity, ordered from most to least verbose.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the single-letter prefix used in text output ("L_tag: ...").
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	default:
		return "?"
	}
}

// Tag names a logging call site and carries the minimum level below which
// calls against it are dropped regardless of the runtime level. The spec
// this facility is modeled on compiles such calls away entirely; Go has no
// equivalent of that preprocessor trick, so the check here is a runtime
// early return instead of a build-time omission.
type Tag struct {
	Name     string
	MinLevel Level
}

// NewTag creates a tag with the given default minimum level.
func NewTag(name string, minLevel Level) Tag {
	return Tag{Name: name, MinLevel: minLevel}
}

// ParseLevel maps a config/flag string ("debug", "info", "warn",
// "error") to a Level, defaulting to LevelInfo for anything else.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
