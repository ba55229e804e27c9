package obstacle

import "fmt"

// DefaultKey is the storage key holding the obstacle array when no namespace is configured.
const DefaultKey = "obstacles"

// StorageKey returns the key holding the obstacle array.
// An empty namespace yields "obstacles", the key the mobile app has always written.
// Pattern: roadlog:{namespace}:obstacles
func StorageKey(namespace string) string {
	if namespace == "" {
		return DefaultKey
	}
	return fmt.Sprintf("roadlog:%s:obstacles", namespace)
}

// EventsChannel returns the Pub/Sub channel name for obstacle change events.
// Pattern: roadlog:{namespace}:obstacle_events
func EventsChannel(namespace string) string {
	if namespace == "" {
		return "roadlog:obstacle_events"
	}
	return fmt.Sprintf("roadlog:%s:obstacle_events", namespace)
}
