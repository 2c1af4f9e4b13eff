package alexasmarthome

import (
	"encoding/json"
	"fmt"
)

// Appliance is a single smart home device as reported by the Alexa network
// details graph. Field names mirror the vendor JSON keys exactly.
type Appliance struct {
	ApplianceID               string             `json:"applianceId"`
	EntityID                  string             `json:"entityId"`
	FriendlyName              string             `json:"friendlyName"`
	FriendlyDescription       string             `json:"friendlyDescription"`
	ManufacturerName          string             `json:"manufacturerName"`
	ModelName                 string             `json:"modelName"`
	Aliases                   []Alias            `json:"aliases,omitempty"`
	ApplianceTypes            []string           `json:"applianceTypes,omitempty"`
	CustomerDefinedDeviceType string             `json:"customerDefinedDeviceType,omitempty"`
	ConnectedVia              string             `json:"connectedVia,omitempty"`
	Capabilities              []Capability       `json:"capabilities,omitempty"`
	DriverIdentity            *DriverIdentity    `json:"driverIdentity,omitempty"`
	AlexaDeviceIdentifierList []DeviceIdentifier `json:"alexaDeviceIdentifierList,omitempty"`
}

// Alias holds a customer rename. Alexa stores manual renames here, so a
// non-empty alias name takes precedence over the appliance friendlyName.
type Alias struct {
	FriendlyName string `json:"friendlyName,omitempty"`
}

type DriverIdentity struct {
	Namespace string `json:"namespace,omitempty"`
}

type DeviceIdentifier struct {
	DMSDeviceSerialNumber string `json:"dmsDeviceSerialNumber,omitempty"`
}

// Capability describes one interface an appliance implements.
type Capability struct {
	InterfaceName string                   `json:"interfaceName"`
	Properties    *CapabilityProperties    `json:"properties,omitempty"`
	Instance      string                   `json:"instance,omitempty"`
	Resources     *CapabilityResources     `json:"resources,omitempty"`
	Configuration *CapabilityConfiguration `json:"configuration,omitempty"`
}

type CapabilityProperties struct {
	Retrievable         bool                `json:"retrievable"`
	ProactivelyReported bool                `json:"proactivelyReported"`
	Supported           []SupportedProperty `json:"supported,omitempty"`
}

type SupportedProperty struct {
	Name string `json:"name"`
}

type CapabilityResources struct {
	FriendlyNames []FriendlyNameResource `json:"friendlyNames,omitempty"`
}

type FriendlyNameResource struct {
	Value FriendlyNameValue `json:"value"`
}

type FriendlyNameValue struct {
	AssetID string `json:"assetId,omitempty"`
}

type CapabilityConfiguration struct {
	UnitOfMeasure string `json:"unitOfMeasure,omitempty"`
}

// NetworkDetails is the nested location -> bridge -> appliance graph returned
// by the vendor discovery call. The doubled field names are the vendor's own
// payload shape, not a typo.
type NetworkDetails struct {
	LocationDetails NetworkLocations `json:"locationDetails"`
}

type NetworkLocations struct {
	LocationDetails map[string]LocationDetail `json:"locationDetails"`
}

type LocationDetail struct {
	AmazonBridgeDetails AmazonBridges `json:"amazonBridgeDetails"`
}

type AmazonBridges struct {
	AmazonBridgeDetails map[string]BridgeDetail `json:"amazonBridgeDetails"`
}

type BridgeDetail struct {
	ApplianceDetails ApplianceDetails `json:"applianceDetails"`
}

type ApplianceDetails struct {
	ApplianceDetails map[string]Appliance `json:"applianceDetails"`
}

// ParseNetworkDetails decodes a raw vendor discovery payload.
func ParseNetworkDetails(data []byte) (*NetworkDetails, error) {
	var details NetworkDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("network details decode: %w", err)
	}
	return &details, nil
}

// FlattenAppliances walks the location/bridge grouping and merges every
// appliance into a single map keyed by applianceId. Later entries overwrite
// earlier ones under the same id.
func FlattenAppliances(details *NetworkDetails) map[string]Appliance {
	appliances := make(map[string]Appliance)
	if details == nil {
		return appliances
	}
	for _, location := range details.LocationDetails.LocationDetails {
		for _, bridge := range location.AmazonBridgeDetails.AmazonBridgeDetails {
			for _, appliance := range bridge.ApplianceDetails.ApplianceDetails {
				appliances[appliance.ApplianceID] = appliance
			}
		}
	}
	return appliances
}

// CapabilityState is one capability-state record from the entity state API.
// Value keeps the raw decoded JSON value; the resolver's typed accessors
// narrow it on demand.
type CapabilityState struct {
	Namespace    string `json:"namespace"`
	Name         string `json:"name"`
	Instance     string `json:"instance,omitempty"`
	Value        any    `json:"value"`
	TimeOfSample string `json:"timeOfSample,omitempty"`
}

// EntityStateMap is a point-in-time snapshot of capability states keyed by
// entity id. Record order within a list is the order the vendor API delivered
// them and must be preserved: the resolver returns the first match.
type EntityStateMap map[string][]CapabilityState

// entityStateResponse mirrors the vendor entity state payload. Each
// capabilityStates element is a JSON document encoded as a string.
type entityStateResponse struct {
	DeviceStates []struct {
		Entity struct {
			EntityID string `json:"entityId"`
		} `json:"entity"`
		CapabilityStates []string `json:"capabilityStates"`
	} `json:"deviceStates"`
}

// ParseEntityStateResponse decodes a raw entity state payload into a
// snapshot. Capability states that fail to decode are dropped; one broken
// record must not hide the rest of the snapshot.
func ParseEntityStateResponse(data []byte) (EntityStateMap, error) {
	var response entityStateResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("entity state decode: %w", err)
	}
	entities := make(EntityStateMap)
	for _, deviceState := range response.DeviceStates {
		id := deviceState.Entity.EntityID
		if id == "" {
			continue
		}
		states := make([]CapabilityState, 0, len(deviceState.CapabilityStates))
		for _, raw := range deviceState.CapabilityStates {
			var state CapabilityState
			if err := json.Unmarshal([]byte(raw), &state); err != nil {
				continue
			}
			states = append(states, state)
		}
		entities[id] = states
	}
	return entities, nil
}
