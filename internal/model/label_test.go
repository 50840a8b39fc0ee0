package model_test

import (
	"testing"

	"betteredible/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelStage_RankFollowsDeclaredOrder(t *testing.T) {
	stages := model.AllStages()
	require.NotEmpty(t, stages)

	for i, st := range stages {
		assert.Equal(t, i, st.Rank())
		assert.True(t, st.Valid())
	}
	assert.Equal(t, -1, model.LabelStage("printing").Rank())
	assert.False(t, model.LabelStage("printing").Valid())
}

func TestLabelStage_OnlyApprovedIsTerminal(t *testing.T) {
	for _, st := range model.AllStages() {
		assert.Equal(t, st == model.StageApproved, st.Terminal(), "stage %s", st)
	}
}

func TestLabelStage_NextStagesIsStrictSuffix(t *testing.T) {
	next := model.StageSubmitted.NextStages()
	require.Len(t, next, len(model.AllStages())-1)
	assert.Equal(t, model.StageDesign, next[0])
	assert.Equal(t, model.StageApproved, next[len(next)-1])

	assert.Equal(t, []model.LabelStage{model.StageApproved}, model.StageClientReview.NextStages())
	assert.Empty(t, model.StageApproved.NextStages())
	assert.Empty(t, model.LabelStage("printing").NextStages())
}
