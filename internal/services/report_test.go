package services

import (
	"testing"

	"github.com/crashph/crash-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestOffice(t *testing.T) {
	manila := models.PoliceOffice{ID: uuid.New(), OfficeName: "Manila HQ", Latitude: 14.5995, Longitude: 120.9842}
	quezon := models.PoliceOffice{ID: uuid.New(), OfficeName: "Quezon City HQ", Latitude: 14.6760, Longitude: 121.0437}
	cebu := models.PoliceOffice{ID: uuid.New(), OfficeName: "Cebu HQ", Latitude: 10.3157, Longitude: 123.8854}
	offices := []models.PoliceOffice{manila, quezon, cebu}

	t.Run("picks closest by great-circle distance", func(t *testing.T) {
		// Incident in Tondo, Manila
		got := nearestOffice(offices, 14.6170, 120.9670)
		require.NotNil(t, got)
		assert.Equal(t, manila.ID, got.ID)

		// Incident near Cebu
		got = nearestOffice(offices, 10.30, 123.90)
		require.NotNil(t, got)
		assert.Equal(t, cebu.ID, got.ID)
	})

	t.Run("no offices", func(t *testing.T) {
		assert.Nil(t, nearestOffice(nil, 14.6, 120.98))
	})

	t.Run("single office always wins", func(t *testing.T) {
		got := nearestOffice([]models.PoliceOffice{cebu}, 14.6, 120.98)
		require.NotNil(t, got)
		assert.Equal(t, cebu.ID, got.ID)
	})
}

func TestHaversineKm(t *testing.T) {
	// Manila to Cebu is roughly 570 km
	d := haversineKm(14.5995, 120.9842, 10.3157, 123.8854)
	assert.InDelta(t, 570, d, 20)

	assert.Zero(t, haversineKm(14.6, 120.98, 14.6, 120.98))
}

func TestStatusValidation(t *testing.T) {
	for _, s := range []string{
		models.StatusPending,
		models.StatusAcknowledged,
		models.StatusEnRoute,
		models.StatusResolved,
		models.StatusCanceled,
	} {
		assert.True(t, models.ValidStatus(s), s)
	}
	assert.False(t, models.ValidStatus("Archived"))
	assert.False(t, models.ValidStatus("pending"))

	assert.True(t, models.TerminalStatus(models.StatusResolved))
	assert.True(t, models.TerminalStatus(models.StatusCanceled))
	assert.False(t, models.TerminalStatus(models.StatusEnRoute))
}
