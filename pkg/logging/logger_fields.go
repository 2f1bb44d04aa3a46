package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Simulation fields

func RunID(id string) Field {
	return Field{Key: "run_id", Value: id}
}

func Turn(n int) Field {
	return Field{Key: "turn", Value: n}
}

func Agent(id int) Field {
	return Field{Key: "agent", Value: id}
}

func Agents(n int) Field {
	return Field{Key: "agents", Value: n}
}

func Zone(name string) Field {
	return Field{Key: "zone", Value: name}
}

func MapFile(path string) Field {
	return Field{Key: "map", Value: path}
}

func Latency(d time.Duration) Field {
	return Field{Key: "latency_ms", Value: float64(d.Microseconds()) / 1000.0}
}
