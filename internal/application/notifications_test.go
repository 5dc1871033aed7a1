package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/costumedesk/internal/application"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

func note(msg string) model.Notification {
	return model.Notification{Level: model.NotificationError, Message: msg}
}

func TestNotificationCenter_DrainReturnsInOrderAndEmpties(t *testing.T) {
	center := application.NewNotificationCenter(5)
	center.Notify(context.Background(), note("first"))
	center.Notify(context.Background(), note("second"))

	got := center.Drain()

	assert.Equal(t, []model.Notification{note("first"), note("second")}, got)
	assert.Equal(t, 0, center.Len())
	assert.Empty(t, center.Drain())
}

func TestNotificationCenter_DropsOldestWhenFull(t *testing.T) {
	center := application.NewNotificationCenter(2)
	for _, m := range []string{"a", "b", "c"} {
		center.Notify(context.Background(), note(m))
	}

	assert.Equal(t, []model.Notification{note("b"), note("c")}, center.Drain())
}

func TestNotificationCenter_DefaultCapacity(t *testing.T) {
	center := application.NewNotificationCenter(0)
	for i := 0; i < application.DefaultNotificationCapacity+5; i++ {
		center.Notify(context.Background(), note("x"))
	}

	assert.Equal(t, application.DefaultNotificationCapacity, center.Len())
}

func TestNotificationCenter_ClearedOnLogout(t *testing.T) {
	gate, err := application.NewAuthGate(context.Background(), newMockCredentialStore(), nil)
	assert.NoError(t, err)

	center := application.NewNotificationCenter(5)
	gate.OnReset(center.Reset)
	center.Notify(context.Background(), note("stale"))

	assert.NoError(t, gate.Logout(context.Background()))
	assert.Equal(t, 0, center.Len())
}
