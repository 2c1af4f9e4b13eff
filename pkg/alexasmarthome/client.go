package alexasmarthome

import (
	"context"
	"errors"
)

// ErrReauthRequired signals that the vendor session has expired and calls
// will keep failing until the account is logged in again. Retry loops must
// stop on it instead of hammering the API.
var ErrReauthRequired = errors.New("smart home session requires reauthentication")

// SmartHomeClient is the vendor API surface this bridge needs. Implementations
// own transport, auth and session handling.
type SmartHomeClient interface {
	// GetNetworkDetails fetches the full device graph of the account.
	GetNetworkDetails(ctx context.Context) (*NetworkDetails, error)
	// GetEntityState fetches a capability state snapshot for the given
	// entity ids. Entities the API knows nothing about are simply absent
	// from the result.
	GetEntityState(ctx context.Context, entityIDs []string) (EntityStateMap, error)
}
