package alexasmarthome

// BinaryState is the tri-state outcome of mapping a detection string.
type BinaryState int

const (
	StateUnknown BinaryState = iota
	StateOff
	StateOn
)

func (s BinaryState) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	default:
		return "unknown"
	}
}

const (
	detectionDetected    = "DETECTED"
	detectionNotDetected = "NOT_DETECTED"
)

// MapDetectionState maps a raw vendor detection string to a binary state.
// Strings other than the two documented values map to off so that a garbled
// report can never latch a sensor on.
func MapDetectionState(value string, present bool) BinaryState {
	if !present {
		return StateUnknown
	}
	switch value {
	case detectionDetected:
		return StateOn
	case detectionNotDetected:
		return StateOff
	default:
		return StateOff
	}
}

// ContactState is a contact sensor reading. Assumed is set when the snapshot
// has no entry at all for the entity, meaning the reported state is a guess.
type ContactState struct {
	State   BinaryState
	Assumed bool
}

// MapContactState maps a contact sensor's detection string, tracking whether
// the entity was present in the snapshot.
func MapContactState(states EntityStateMap, entityID string, r *Resolver) ContactState {
	_, known := states[entityID]
	value, ok := r.DetectionState(states, entityID, InterfaceContactSensor, nil)
	return ContactState{
		State:   MapDetectionState(value, ok),
		Assumed: !known,
	}
}
