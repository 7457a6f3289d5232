package release

// Kind classifies a release as an end-user ready stable release or a
// development prerelease.
type Kind int

const (
	KindUnknown Kind = iota
	KindStable
	KindDevelopment
)

// String returns the serialized form of the release kind.
func (k Kind) String() string {
	switch k {
	case KindStable:
		return "stable"
	case KindDevelopment:
		return "development"
	}
	return "unknown"
}

// KindFromString parses a release kind token. Unrecognized input maps
// to KindUnknown.
func KindFromString(s string) Kind {
	switch s {
	case "stable":
		return KindStable
	case "development":
		return KindDevelopment
	}
	return KindUnknown
}

// Urgency describes how important it is to install an update.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

// String returns the serialized form of the urgency.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyCritical:
		return "critical"
	}
	return "unknown"
}

// UrgencyFromString parses an urgency token. Unrecognized input maps
// to UrgencyUnknown.
func UrgencyFromString(s string) Urgency {
	switch s {
	case "low":
		return UrgencyLow
	case "medium":
		return UrgencyMedium
	case "high":
		return UrgencyHigh
	case "critical":
		return UrgencyCritical
	}
	return UrgencyUnknown
}

// URLKind describes what a release URL points at.
type URLKind int

const (
	URLKindUnknown URLKind = iota
	URLKindDetails
)

// String returns the serialized form of the URL kind.
func (k URLKind) String() string {
	if k == URLKindDetails {
		return "details"
	}
	return "unknown"
}

// URLKindFromString parses a URL kind token. An absent token means
// URLKindDetails, since details links are the only URL kind releases
// carry so far; any other unrecognized token maps to URLKindUnknown.
func URLKindFromString(s string) URLKind {
	if s == "" || s == "details" {
		return URLKindDetails
	}
	return URLKindUnknown
}
