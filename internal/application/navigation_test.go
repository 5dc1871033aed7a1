package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/costumedesk/internal/application"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

func TestNavigate(t *testing.T) {
	allowed := model.NavDecision{Allowed: true}
	toLogin := model.NavDecision{Redirect: model.PathLogin}
	toCostumes := model.NavDecision{Redirect: model.PathCostumes}

	tests := []struct {
		name          string
		target        string
		authenticated bool
		want          model.NavDecision
	}{
		{"root signed out", "/", false, toLogin},
		{"root signed in", "/", true, toLogin},
		{"empty target", "", true, toLogin},
		{"list signed out", "/costumes", false, toLogin},
		{"list signed in", "/costumes", true, allowed},
		{"detail signed out", "/costumes/12", false, toLogin},
		{"detail signed in", "/costumes/12/edit", true, allowed},
		{"login signed out", "/login", false, allowed},
		{"login signed in", "/login", true, toCostumes},
		{"login trailing slash", "/login/", true, toCostumes},
		{"login with query", "/login?next=%2Fcostumes", false, allowed},
		{"dot segments", "/costumes/../login", true, toCostumes},
		{"relative target", "costumes", false, toLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.Navigate(tt.target, tt.authenticated))
		})
	}
}
