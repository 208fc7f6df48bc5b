package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exits = []ExitAction{ExitClose, ExitContinue, ExitCloseShop}

func TestShopReturnsToOrigin(t *testing.T) {
	for _, exit := range exits {
		t.Run(string(exit), func(t *testing.T) {
			n := New()
			require.NoError(t, n.StartCampaign())
			require.NoError(t, n.OpenShop())
			assert.Equal(t, CampaignOverview, n.Origin())
			view, err := n.CloseShop(exit)
			require.NoError(t, err)
			assert.Equal(t, CampaignOverview, view)

			require.NoError(t, n.StartFreePlay())
			require.NoError(t, n.OpenShop())
			view, err = n.CloseShop(exit)
			require.NoError(t, err)
			assert.Equal(t, FreePlayOverview, view)
			assert.Equal(t, View(""), n.Origin())
		})
	}
}

func TestMindPalaceReturnsToOrigin(t *testing.T) {
	for _, exit := range exits {
		n := New()
		require.NoError(t, n.StartFreePlay())
		require.NoError(t, n.OpenMindPalace())
		view, err := n.CloseMindPalace(exit)
		require.NoError(t, err)
		assert.Equal(t, FreePlayOverview, view)

		require.NoError(t, n.StartCampaign())
		require.NoError(t, n.OpenMindPalace())
		view, err = n.CloseMindPalace(exit)
		require.NoError(t, err)
		assert.Equal(t, CampaignOverview, view)
	}
}

// Leaving free play must not leave anything behind that sends a later
// campaign shop visit back to free play.
func TestNoStaleOriginAcrossModeSwitch(t *testing.T) {
	n := New()
	require.NoError(t, n.StartCampaign())
	require.NoError(t, n.StartFreePlay())
	require.NoError(t, n.OpenShop())
	_, err := n.CloseShop(ExitClose)
	require.NoError(t, err)
	require.NoError(t, n.ReturnToModeSelect())
	require.NoError(t, n.StartCampaign())

	require.NoError(t, n.OpenShop())
	view, err := n.CloseShop(ExitContinue)
	require.NoError(t, err)
	assert.Equal(t, CampaignOverview, view)

	require.NoError(t, n.OpenMindPalace())
	view, err = n.CloseMindPalace(ExitClose)
	require.NoError(t, err)
	assert.Equal(t, CampaignOverview, view)
}

func TestRoundTransitions(t *testing.T) {
	n := New()
	assert.ErrorIs(t, n.StartRound(), ErrInvalidTransition)

	require.NoError(t, n.StartCampaign())
	require.NoError(t, n.StartRound())
	assert.Equal(t, TaskRound, n.View())
	assert.ErrorIs(t, n.OpenShop(), ErrInvalidTransition)
	require.NoError(t, n.FinishRound())
	assert.Equal(t, CampaignOverview, n.View())

	require.NoError(t, n.StartRound())
	require.NoError(t, n.CompleteCampaign())
	assert.Equal(t, CampaignComplete, n.View())

	require.NoError(t, n.TryFreePlay())
	assert.Equal(t, TaskRound, n.View())
	assert.Equal(t, ModeFreePlay, n.Mode())
	require.NoError(t, n.FinishRound())
	assert.Equal(t, FreePlayOverview, n.View())
	assert.ErrorIs(t, n.CompleteCampaign(), ErrInvalidTransition)
}

func TestInvalidCloses(t *testing.T) {
	n := New()
	require.NoError(t, n.StartCampaign())

	_, err := n.CloseShop(ExitClose)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, n.OpenShop())
	_, err = n.CloseMindPalace(ExitClose)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, Shop, n.View())
	assert.ErrorIs(t, n.StartFreePlay(), ErrInvalidTransition)
}

func TestParseExitAction(t *testing.T) {
	for _, s := range []string{"close", "continue", "close_shop"} {
		got, err := ParseExitAction(s)
		require.NoError(t, err)
		assert.Equal(t, ExitAction(s), got)
	}
	got, err := ParseExitAction("")
	require.NoError(t, err)
	assert.Equal(t, ExitClose, got)

	_, err = ParseExitAction("escape")
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	n := New()
	n.Restore(ModeFreePlay)
	assert.Equal(t, FreePlayOverview, n.View())
	n.Restore(ModeNone)
	assert.Equal(t, ModeSelect, n.View())
}
