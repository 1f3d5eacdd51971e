package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Session.
	ErrNotWelcomed = "E_NOT_WELCOMED"
	ErrBadLevel    = "E_BAD_LEVEL"

	// Executor.
	ErrBadObs      = "E_BAD_OBS"
	ErrUnknownGoal = "E_UNKNOWN_GOAL"
	ErrInternal    = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrNotWelcomed:     {},
	ErrBadLevel:        {},
	ErrBadObs:          {},
	ErrUnknownGoal:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
