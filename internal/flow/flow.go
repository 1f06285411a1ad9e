// Package flow implements the screen navigation of the partner dashboard as
// an explicit finite-state machine, decoupled from any rendering concern.
// A Controller holds the current screen, the signed-in identity, and the
// payload the current screen was entered with; transitions are driven by
// Navigate/Back calls and validated against a fixed table.
package flow

import (
	"errors"
	"fmt"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// Screen identifies one dashboard view.
type Screen string

const (
	ScreenLanding        Screen = "landing"
	ScreenLogin          Screen = "login"
	ScreenHome           Screen = "home"
	ScreenLeadDetails    Screen = "lead-details"
	ScreenSalesCopilot   Screen = "sales-copilot"
	ScreenLearningHub    Screen = "learning-hub"
	ScreenPostSale       Screen = "post-sale"
	ScreenGrowthPlaybook Screen = "growth-playbook"
	ScreenQuiz           Screen = "quiz"
)

// ErrUnknownScreen is returned by Navigate when the target is not a known
// screen value.
var ErrUnknownScreen = errors.New("flow: unknown screen")

// ErrUnauthenticated is returned when a navigation targets an authenticated
// screen while no identity is set.
var ErrUnauthenticated = errors.New("flow: not signed in")

// ErrIllegalTransition is returned for a known screen that is not reachable
// from the current one.
var ErrIllegalTransition = errors.New("flow: transition not allowed")

// Payload carries the entity selection handed to the screen being entered.
// Fields are populated per target screen: Lead for lead-details and
// sales-copilot, ChatSeed optionally for sales-copilot, Module for quiz,
// CustomerID for post-sale. Unused fields stay zero.
type Payload struct {
	Lead       *domain.Lead
	ChatSeed   string
	Module     *domain.TrainingModule
	CustomerID string
}

// Identity is the signed-in user as reported by the external auth
// collaborator. The FSM only cares about presence and a display name.
type Identity struct {
	PartnerID   string
	DisplayName string
}

// authenticated screens reachable from home; every one of them returns to
// home on Back.
var homeTargets = map[Screen]bool{
	ScreenLeadDetails:    true,
	ScreenSalesCopilot:   true,
	ScreenLearningHub:    true,
	ScreenPostSale:       true,
	ScreenGrowthPlaybook: true,
}

// transitions lists the legal moves per current screen. Screens absent from
// a target set are rejected with ErrIllegalTransition.
var transitions = map[Screen]map[Screen]bool{
	ScreenLanding: {ScreenLogin: true},
	ScreenLogin:   {ScreenHome: true, ScreenLanding: true},
	ScreenHome:    homeTargets,
	ScreenLeadDetails: {
		ScreenSalesCopilot: true,
		ScreenHome:         true,
	},
	ScreenSalesCopilot:   {ScreenHome: true, ScreenPostSale: true},
	ScreenLearningHub:    {ScreenHome: true, ScreenQuiz: true},
	ScreenQuiz:           {ScreenHome: true, ScreenLearningHub: true},
	ScreenPostSale:       {ScreenHome: true},
	ScreenGrowthPlaybook: {ScreenHome: true},
}

// known reports whether s is one of the enum values.
func known(s Screen) bool {
	_, ok := transitions[s]
	return ok
}

// Controller is the dashboard's navigation state machine. The zero value is
// not usable; construct with New. Controller is not safe for concurrent use.
type Controller struct {
	current  Screen
	identity *Identity
	payload  Payload
}

// New returns a controller positioned on the landing screen, signed out.
func New() *Controller {
	return &Controller{current: ScreenLanding}
}

// Current returns the active screen.
func (c *Controller) Current() Screen { return c.current }

// Payload returns the payload the current screen was entered with.
func (c *Controller) Payload() Payload { return c.payload }

// Authenticated reports whether an identity is present.
func (c *Controller) Authenticated() bool { return c.identity != nil }

// Identity returns the signed-in identity, or nil when signed out.
func (c *Controller) Identity() *Identity { return c.identity }

// SignIn records the identity and moves to home. Valid from landing or
// login only.
func (c *Controller) SignIn(id Identity) error {
	if c.current != ScreenLanding && c.current != ScreenLogin {
		return fmt.Errorf("%w: sign-in from %q", ErrIllegalTransition, c.current)
	}
	c.identity = &id
	c.current = ScreenHome
	c.payload = Payload{}
	return nil
}

// SignOut clears the identity and returns to landing from any screen.
func (c *Controller) SignOut() {
	c.identity = nil
	c.current = ScreenLanding
	c.payload = Payload{}
}

// Navigate moves to the target screen carrying the given payload. Unknown
// screens fail with ErrUnknownScreen; authenticated screens require a
// signed-in identity; anything else illegal from the current screen fails
// with ErrIllegalTransition. On failure the controller state is unchanged.
func (c *Controller) Navigate(to Screen, p Payload) error {
	if !known(to) {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, to)
	}
	if c.identity == nil && to != ScreenLanding && to != ScreenLogin {
		return fmt.Errorf("%w: %q requires sign-in", ErrUnauthenticated, to)
	}
	allowed := transitions[c.current]
	if !allowed[to] {
		return fmt.Errorf("%w: %q -> %q", ErrIllegalTransition, c.current, to)
	}
	c.current = to
	c.payload = p
	return nil
}

// Back returns to home and clears the payload. From landing or login it is
// a no-op on the screen but still clears any payload. Requires sign-in to
// land on home.
func (c *Controller) Back() {
	c.payload = Payload{}
	if c.identity == nil {
		c.current = ScreenLanding
		return
	}
	c.current = ScreenHome
}
