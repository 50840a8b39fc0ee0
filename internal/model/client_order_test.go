package model_test

import (
	"testing"

	"betteredible/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_InProductionCoversStage1ThroughReadyToShip(t *testing.T) {
	inProduction := []model.OrderStatus{
		model.OrderStage1, model.OrderStage2, model.OrderStage3,
		model.OrderStage4, model.OrderReadyToShip,
	}
	for _, st := range inProduction {
		assert.True(t, st.InProduction(), "status %s", st)
	}

	outside := []model.OrderStatus{model.OrderWaiting, model.OrderShipped, model.OrderCancelled}
	for _, st := range outside {
		assert.False(t, st.InProduction(), "status %s", st)
	}
}

func TestOrderStatus_OnlyShippedIsTerminal(t *testing.T) {
	assert.True(t, model.OrderShipped.Terminal())
	assert.False(t, model.OrderCancelled.Terminal())
	assert.False(t, model.OrderReadyToShip.Terminal())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, model.OrderWaiting.Valid())
	assert.True(t, model.OrderCancelled.Valid())
	assert.False(t, model.OrderStatus("pending").Valid())
	assert.False(t, model.OrderStatus("").Valid())
}
