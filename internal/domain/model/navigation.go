package model

// Well-known GUI paths used by the navigation guard.
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathCostumes = "/costumes"
)

// NavDecision is the outcome of evaluating a navigation attempt.
// When Allowed is false, Redirect holds the path the user is sent to instead.
type NavDecision struct {
	Allowed  bool
	Redirect string
}
