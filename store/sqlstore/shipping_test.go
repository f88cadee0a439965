package sqlstore_test

import (
	"context"
	"testing"

	"foodies-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingPolicySingleton(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.GetShippingPolicy(ctx)
	require.NoError(t, err)
	assert.Nil(t, p, "absent until an admin saves one")

	saved, err := s.UpsertShippingPolicy(ctx, &models.ShippingPolicy{
		Mode:                 models.ShippingFlat,
		FlatRate:             d("250"),
		CustomRate:           d("0"),
		FreeThresholdEnabled: true,
		FreeThresholdAmount:  d("2000"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShippingPolicyID, saved.ID)

	saved, err = s.UpsertShippingPolicy(ctx, &models.ShippingPolicy{
		Base:                models.Base{ID: "ignored"},
		Mode:                models.ShippingCustom,
		FlatRate:            d("250"),
		CustomRate:          d("120.50"),
		FreeThresholdAmount: d("0"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ShippingCustom, saved.Mode)
	assert.True(t, saved.CustomRate.Equal(d("120.50")))
	assert.False(t, saved.FreeThresholdEnabled)

	var count int64
	require.NoError(t, s.DB().Model(&models.ShippingPolicy{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
