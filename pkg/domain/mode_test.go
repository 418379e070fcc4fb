package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sitefinder/pkg/domain"
)

func TestProfileFor_knownModes(t *testing.T) {
	for _, mode := range []domain.Mode{
		domain.ModeFast, domain.ModeDeep, domain.ModeAggressive, domain.ModeExhaustive,
	} {
		p, err := domain.ProfileFor(mode)
		require.NoError(t, err)
		require.Equal(t, mode, p.Mode)
	}
}

func TestProfileFor_unknownMode(t *testing.T) {
	_, err := domain.ProfileFor("turbo")
	require.Error(t, err)
}

func TestProfiles_monotonicRecall(t *testing.T) {
	fast, _ := domain.ProfileFor(domain.ModeFast)
	deep, _ := domain.ProfileFor(domain.ModeDeep)
	aggressive, _ := domain.ProfileFor(domain.ModeAggressive)
	exhaustive, _ := domain.ProfileFor(domain.ModeExhaustive)

	require.Greater(t, fast.AcceptThreshold(), deep.AcceptThreshold())
	require.Greater(t, deep.AcceptThreshold(), aggressive.AcceptThreshold())
	require.Greater(t, aggressive.AcceptThreshold(), exhaustive.AcceptThreshold())

	require.Less(t, fast.CandidateCap, deep.CandidateCap)
	require.Less(t, deep.CandidateCap, aggressive.CandidateCap)
	require.Less(t, aggressive.CandidateCap, exhaustive.CandidateCap)

	require.False(t, fast.RunExhaustive)
	require.True(t, exhaustive.RunExhaustive)
}

func TestSourcePriority_identityBeatsGuess(t *testing.T) {
	require.Less(t, domain.SourceIdentity.Priority(), domain.SourceDomainGuess.Priority())
	require.Less(t, domain.SourceExisting.Priority(), domain.SourceExhaustive.Priority())
}
