package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeSearch_KeywordOverlap(t *testing.T) {
	k := NewKnowledge(newFakeStore())

	hits, err := k.Search(context.Background(), "Есть ли скидка для студентов?", 2)
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "скидки", hits[0].Category)
	assert.Contains(t, hits[0].Content, "скидка 10%")
}

func TestKnowledgeSearch_RanksByScore(t *testing.T) {
	k := NewKnowledge(newFakeStore())

	// Two keyword hits for parking, one for discounts.
	hits, err := k.Search(context.Background(), "парковка для авто, есть скидка?", 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "парковка", hits[0].Category)
	assert.Equal(t, 2, hits[0].Score)
	assert.Equal(t, "скидки", hits[1].Category)
}

func TestKnowledgeSearch_TopKLimit(t *testing.T) {
	k := NewKnowledge(newFakeStore())

	hits, err := k.Search(context.Background(), "скидка парковка студент авто", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestKnowledgeSearch_NoHits(t *testing.T) {
	k := NewKnowledge(newFakeStore())

	hits, err := k.Search(context.Background(), "сколько стоит стрижка", 2)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = k.Search(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
