// Package constants holds shared domain constants.
package constants

const (
	// PubSubProviderLocal selects the local HTTP push emulator.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)
