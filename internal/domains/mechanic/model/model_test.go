package model_test

import (
	"testing"

	"bengkel/internal/domains/mechanic/model"

	"github.com/stretchr/testify/assert"
)

func TestMechanic_Eligible(t *testing.T) {
	tests := []struct {
		name     string
		mechanic model.Mechanic
		want     bool
	}{
		{"online and verified", model.Mechanic{Status: model.StatusOnline, IsVerified: true}, true},
		{"online but unverified", model.Mechanic{Status: model.StatusOnline}, false},
		{"busy", model.Mechanic{Status: model.StatusBusy, IsVerified: true}, false},
		{"offline", model.Mechanic{Status: model.StatusOffline, IsVerified: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mechanic.Eligible())
		})
	}
}

func TestMechanic_Located(t *testing.T) {
	lat, lng := -6.2, 106.8

	assert.True(t, model.Mechanic{Latitude: &lat, Longitude: &lng}.Located())
	assert.False(t, model.Mechanic{Latitude: &lat}.Located())
	assert.False(t, model.Mechanic{}.Located())
}
