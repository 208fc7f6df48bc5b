package navigation

import (
	"errors"
	"fmt"
	"log"
)

type View string

const (
	ModeSelect       View = "mode_select"
	CampaignOverview View = "campaign_overview"
	FreePlayOverview View = "free_play_overview"
	TaskRound        View = "task_round"
	Shop             View = "shop"
	MindPalace       View = "mind_palace"
	CampaignComplete View = "campaign_complete"
)

type Mode string

const (
	ModeNone     Mode = ""
	ModeCampaign Mode = "campaign"
	ModeFreePlay Mode = "free_play"
)

// ExitAction names the different ways of leaving a shared modal. They all
// route to the same place.
type ExitAction string

const (
	ExitClose     ExitAction = "close"      // the X button
	ExitContinue  ExitAction = "continue"   // "Continue Campaign" / "Continue Free Play"
	ExitCloseShop ExitAction = "close_shop" // "Close Shop"
)

func ParseExitAction(s string) (ExitAction, error) {
	switch ExitAction(s) {
	case ExitClose, ExitContinue, ExitCloseShop:
		return ExitAction(s), nil
	case "":
		return ExitClose, nil
	}
	return "", fmt.Errorf("unknown exit action %q", s)
}

var ErrInvalidTransition = errors.New("invalid view transition")

// Navigator is the view state machine. The shop and the mind palace can be
// opened from either overview; the origin is taken from the overview that is
// current when the modal opens and is dropped when the modal closes, so it can
// never leak into a later mode.
type Navigator struct {
	view   View
	mode   Mode
	origin View
}

func New() *Navigator {
	return &Navigator{view: ModeSelect}
}

func (n *Navigator) View() View {
	return n.view
}

func (n *Navigator) Mode() Mode {
	return n.mode
}

// Origin is only set while a shared modal is open
func (n *Navigator) Origin() View {
	return n.origin
}

func (n *Navigator) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, n.view)
}

func (n *Navigator) overview() View {
	switch n.mode {
	case ModeCampaign:
		return CampaignOverview
	case ModeFreePlay:
		return FreePlayOverview
	}
	return ModeSelect
}

func isOverview(v View) bool {
	return v == CampaignOverview || v == FreePlayOverview
}

func (n *Navigator) StartCampaign() error {
	if n.view != ModeSelect && !isOverview(n.view) && n.view != CampaignComplete {
		return n.invalid("start campaign")
	}
	n.mode = ModeCampaign
	n.view = CampaignOverview
	n.origin = ""
	return nil
}

func (n *Navigator) StartFreePlay() error {
	if n.view != ModeSelect && !isOverview(n.view) && n.view != CampaignComplete {
		return n.invalid("start free play")
	}
	n.mode = ModeFreePlay
	n.view = FreePlayOverview
	n.origin = ""
	return nil
}

func (n *Navigator) ReturnToModeSelect() error {
	if !isOverview(n.view) && n.view != CampaignComplete && n.view != ModeSelect {
		return n.invalid("return to mode select")
	}
	n.mode = ModeNone
	n.view = ModeSelect
	n.origin = ""
	return nil
}

func (n *Navigator) StartRound() error {
	if !isOverview(n.view) {
		return n.invalid("start round")
	}
	n.view = TaskRound
	return nil
}

func (n *Navigator) FinishRound() error {
	if n.view != TaskRound {
		return n.invalid("finish round")
	}
	n.view = n.overview()
	return nil
}

// CompleteCampaign leaves the final campaign round for the completion screen
func (n *Navigator) CompleteCampaign() error {
	if n.view != TaskRound || n.mode != ModeCampaign {
		return n.invalid("complete campaign")
	}
	n.view = CampaignComplete
	return nil
}

// TryFreePlay is the completion screen's primary action: it drops the player
// straight into a free play round.
func (n *Navigator) TryFreePlay() error {
	if n.view != CampaignComplete && n.view != CampaignOverview {
		return n.invalid("try free play")
	}
	n.mode = ModeFreePlay
	n.view = TaskRound
	n.origin = ""
	return nil
}

func (n *Navigator) openModal(modal View) error {
	if !isOverview(n.view) {
		return n.invalid("open " + string(modal))
	}
	n.origin = n.view
	n.view = modal
	return nil
}

func (n *Navigator) closeModal(modal View, exit ExitAction) (View, error) {
	if n.view != modal {
		return n.view, n.invalid(fmt.Sprintf("close %s (%s)", modal, exit))
	}
	target := n.origin
	if !isOverview(target) {
		// Cannot happen: openModal always records an overview.
		log.Printf("[NAVIGATION-ERROR] %s open without origin, mode %q", modal, n.mode)
		target = n.overview()
	}
	n.view = target
	n.origin = ""
	return target, nil
}

func (n *Navigator) OpenShop() error {
	return n.openModal(Shop)
}

func (n *Navigator) CloseShop(exit ExitAction) (View, error) {
	return n.closeModal(Shop, exit)
}

func (n *Navigator) OpenMindPalace() error {
	return n.openModal(MindPalace)
}

func (n *Navigator) CloseMindPalace(exit ExitAction) (View, error) {
	return n.closeModal(MindPalace, exit)
}

// Restore positions the navigator on the overview of mode, used after a reload
func (n *Navigator) Restore(mode Mode) {
	n.mode = mode
	n.view = n.overview()
	n.origin = ""
}
