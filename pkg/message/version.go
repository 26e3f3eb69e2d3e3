package message

// Version information for the message module.
const (
	// Version is the current version of the message module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
