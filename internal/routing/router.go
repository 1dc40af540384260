package routing

// Template is a registered route: a method token ("*" matches any method)
// and a pattern of path segments where "*" matches any single segment.
// Kind and Action are attached to the resulting RouteMatch on resolution.
type Template struct {
	Method  string
	Pattern []string
	Kind    Kind
	Action  Action
}

// Router selects the best-matching template for a request path. Templates
// are kept as an ordered list, not a map: specificity decides first, and
// registration order breaks ties, so iteration order must be stable.
type Router struct {
	templates []Template
}

func NewRouter() *Router {
	return &Router{}
}

// Register appends a template. Registration order matters for tie-breaking
// and must happen before the router is shared between goroutines.
func (r *Router) Register(t Template) {
	pattern := make([]string, len(t.Pattern))
	copy(pattern, t.Pattern)
	t.Pattern = pattern
	r.templates = append(r.templates, t)
}

// Resolve matches the request against every registered template and picks
// the one with the most matching segments; the first registered wins a
// length tie. A template shorter than the path matches its prefix, with the
// trailing request segments ignored. Wildcards bind in order: the first
// bound value is the collection id, the second the member id.
func (r *Router) Resolve(method string, segments []string) (RouteMatch, error) {
	best := -1
	for i, t := range r.templates {
		if !methodMatches(t.Method, method) {
			continue
		}
		if !patternMatches(t.Pattern, segments) {
			continue
		}
		if best < 0 || len(t.Pattern) > len(r.templates[best].Pattern) {
			best = i
		}
	}
	if best < 0 {
		return RouteMatch{}, ErrUnknownRoute
	}

	t := r.templates[best]
	m := RouteMatch{Kind: t.Kind, Action: t.Action}
	bound := 0
	for i, p := range t.Pattern {
		if p != "*" {
			continue
		}
		switch bound {
		case 0:
			m.CollectionID = segments[i]
		case 1:
			m.MemberID = segments[i]
		}
		bound++
	}
	return m, nil
}

func methodMatches(pattern, method string) bool {
	return pattern == "*" || pattern == method
}

func patternMatches(pattern, segments []string) bool {
	if len(pattern) > len(segments) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != segments[i] {
			return false
		}
	}
	return true
}
