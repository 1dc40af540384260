// Package routing resolves an HTTP method and a slash-split request path
// into the target resource, its bound identifiers and the requested
// sub-action. Two strategies are provided: Resolve walks the fixed resource
// grammar positionally, and Router performs best-match wildcard routing over
// registered templates. Both are pure over their inputs.
package routing

import "errors"

var (
	// ErrUnknownRoute means no registered template or top-level resource
	// matched the request path.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrBadRequest means the path used a segment outside the resource
	// grammar, or the method token is not recognized.
	ErrBadRequest = errors.New("malformed request path")
)

// Kind identifies the resource a request addresses.
type Kind int

const (
	KindCollection Kind = iota
	KindMember
	KindFeature
	KindVersion
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindMember:
		return "member"
	case KindFeature:
		return "feature"
	case KindVersion:
		return "version"
	}
	return "unknown"
}

// Action is the sub-action requested on the resource.
type Action int

const (
	ActionPlain Action = iota
	ActionCapabilities
	ActionDownload
	ActionProperties
)

func (a Action) String() string {
	switch a {
	case ActionPlain:
		return "plain"
	case ActionCapabilities:
		return "capabilities"
	case ActionDownload:
		return "download"
	case ActionProperties:
		return "properties"
	}
	return "unknown"
}

// RouteMatch is the resolved outcome of dispatching a request. CollectionID
// and MemberID hold the raw path segments bound to the first and second
// wildcard positions; they are empty when the route carries none.
type RouteMatch struct {
	Kind         Kind
	Action       Action
	CollectionID string
	MemberID     string
}
