package routing

var knownMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// Resolve consumes path segments left to right against the fixed resource
// grammar:
//
//	collections [{collID} [members [{memberID} [download|properties]] |
//	                       capabilities | download]]
//	features
//	version
//
// It never mutates segments. A first segment outside the known top-level
// resources yields ErrUnknownRoute; any segment violating the grammar
// beyond that point yields ErrBadRequest.
func Resolve(method string, segments []string) (RouteMatch, error) {
	if !knownMethods[method] {
		return RouteMatch{}, ErrBadRequest
	}
	if len(segments) == 0 {
		return RouteMatch{}, ErrUnknownRoute
	}

	switch segments[0] {
	case "features":
		if len(segments) > 1 {
			return RouteMatch{}, ErrBadRequest
		}
		return RouteMatch{Kind: KindFeature}, nil
	case "version":
		if len(segments) > 1 {
			return RouteMatch{}, ErrBadRequest
		}
		return RouteMatch{Kind: KindVersion}, nil
	case "collections":
		return resolveCollections(segments[1:])
	}
	return RouteMatch{}, ErrUnknownRoute
}

func resolveCollections(rest []string) (RouteMatch, error) {
	m := RouteMatch{Kind: KindCollection}
	if len(rest) == 0 {
		return m, nil
	}

	// The collection id may not be a reserved token of the grammar.
	if reserved(rest[0]) {
		return RouteMatch{}, ErrBadRequest
	}
	m.CollectionID = rest[0]
	rest = rest[1:]
	if len(rest) == 0 {
		return m, nil
	}

	switch rest[0] {
	case "capabilities":
		if len(rest) > 1 {
			return RouteMatch{}, ErrBadRequest
		}
		m.Action = ActionCapabilities
		return m, nil
	case "download":
		if len(rest) > 1 {
			return RouteMatch{}, ErrBadRequest
		}
		m.Action = ActionDownload
		return m, nil
	case "members":
		return resolveMembers(m, rest[1:])
	}
	return RouteMatch{}, ErrBadRequest
}

func resolveMembers(m RouteMatch, rest []string) (RouteMatch, error) {
	m.Kind = KindMember
	if len(rest) == 0 {
		return m, nil
	}

	if reserved(rest[0]) {
		return RouteMatch{}, ErrBadRequest
	}
	m.MemberID = rest[0]
	rest = rest[1:]
	if len(rest) == 0 {
		return m, nil
	}

	switch rest[0] {
	case "download":
		m.Action = ActionDownload
	case "properties":
		m.Action = ActionProperties
	default:
		return RouteMatch{}, ErrBadRequest
	}
	if len(rest) > 1 {
		return RouteMatch{}, ErrBadRequest
	}
	return m, nil
}

func reserved(segment string) bool {
	switch segment {
	case "members", "capabilities", "download", "properties", "collections":
		return true
	}
	return false
}
