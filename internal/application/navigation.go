package application

import (
	"path"
	"strings"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// Navigate is the navigation guard. It decides, from the target path and
// credential presence alone, whether a transition is allowed:
//
//   - the root path always redirects to the login page;
//   - the login page redirects to the costume list when signed in;
//   - every other page redirects to the login page when signed out.
func Navigate(target string, authenticated bool) model.NavDecision {
	switch normalizePath(target) {
	case model.PathRoot:
		return redirect(model.PathLogin)
	case model.PathLogin:
		if authenticated {
			return redirect(model.PathCostumes)
		}
		return model.NavDecision{Allowed: true}
	}

	if !authenticated {
		return redirect(model.PathLogin)
	}
	return model.NavDecision{Allowed: true}
}

func redirect(to string) model.NavDecision {
	return model.NavDecision{Redirect: to}
}

// normalizePath strips query and fragment and cleans the path so that
// "/login/" and "/login?x=1" are treated as "/login".
func normalizePath(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return model.PathRoot
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}
	return path.Clean(target)
}
