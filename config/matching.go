package config

import "github.com/spf13/viper"

// Matching holds request lifecycle policy switches.
type Matching struct {
	// AllowDecideOnAssigned permits approving a request whose task was
	// already assigned through the direct path.
	AllowDecideOnAssigned bool
}

func getMatchingConfig(v *viper.Viper) *Matching {
	return &Matching{
		AllowDecideOnAssigned: getBoolOrDefault(v, "matching.allow_decide_on_assigned", false),
	}
}

// Event event bus config struct
type Event struct {
	BufferSize int
	Workers    int
}

func getEventConfig(v *viper.Viper) *Event {
	return &Event{
		BufferSize: getIntOrDefault(v, "event.buffer_size", 256),
		Workers:    getIntOrDefault(v, "event.workers", 4),
	}
}
