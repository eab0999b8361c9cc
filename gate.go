package accountflow

// RouteSpec declares what a view requires before it may render.
// RequiresAdmin implies RequiresAuth.
type RouteSpec struct {
	RequiresAuth  bool
	RequiresAdmin bool
}

// RouteDecision is the outcome of authorizing a requested view.
type RouteDecision int

const (
	// RouteRender means the requested view may render.
	RouteRender RouteDecision = iota
	// RouteLoading means the session state is still undetermined; show a
	// placeholder and re-evaluate on the next session transition.
	RouteLoading
	// RouteRedirectLanding means the caller must navigate to the public
	// landing view instead.
	RouteRedirectLanding
)

func (d RouteDecision) String() string {
	switch d {
	case RouteRender:
		return "render"
	case RouteLoading:
		return "loading"
	case RouteRedirectLanding:
		return "redirect-landing"
	default:
		return "invalid"
	}
}

// Authorize decides whether a requested view renders, redirects, or
// waits. It is a pure function of the session snapshot and the route's
// requirements; it owns no state and is re-evaluated on every session
// transition. While the session is Unknown the answer is always a
// loading placeholder — never a redirect off a page the user may be
// entitled to.
func Authorize(session SessionSnapshot, route RouteSpec) RouteDecision {
	if session.State == SessionUnknown {
		return RouteLoading
	}

	needsAuth := route.RequiresAuth || route.RequiresAdmin
	if session.State == SessionAnonymous {
		if needsAuth {
			return RouteRedirectLanding
		}
		return RouteRender
	}

	if route.RequiresAdmin && (session.Principal == nil || !session.Principal.IsAdmin) {
		return RouteRedirectLanding
	}
	return RouteRender
}
