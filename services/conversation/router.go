package conversation

import (
	"context"
	"fmt"

	"villagestay/models"
)

// handlerFunc processes one message in a given state and returns the reply.
type handlerFunc func(ctx context.Context, t *turn) string

type routeKey struct {
	Step    models.Step
	SubStep models.SubStep
}

type routeTable map[routeKey]handlerFunc

// buildRoutes declares the full state machine. Every reachable
// (step, sub-step) pair maps to exactly one handler.
func (e *Engine) buildRoutes() routeTable {
	return routeTable{
		{models.StepGreeting, models.SubStepNone}: e.handleGreeting,

		{models.StepNewUserProfile, models.SubStepName}:          e.handleProfileName,
		{models.StepNewUserProfile, models.SubStepEmail}:         e.handleProfileEmail,
		{models.StepNewUserProfile, models.SubStepEmailConflict}: e.handleProfileEmailConflict,
		{models.StepNewUserProfile, models.SubStepPassword}:      e.handleProfilePassword,
		{models.StepNewUserProfile, models.SubStepLocation}:      e.handleProfileLocation,

		{models.StepMainMenu, models.SubStepNone}:       e.handleMainMenu,
		{models.StepBrowseListings, models.SubStepNone}: e.handleBrowseListings,
		{models.StepListingDetails, models.SubStepNone}: e.handleListingDetails,

		{models.StepBookingFlow, models.SubStepCheckIn}:         e.handleCheckInDate,
		{models.StepBookingFlow, models.SubStepCheckOut}:        e.handleCheckOutDate,
		{models.StepBookingFlow, models.SubStepGuests}:          e.handleGuestCount,
		{models.StepBookingFlow, models.SubStepSpecialRequests}: e.handleSpecialRequests,
		{models.StepBookingFlow, models.SubStepConfirmation}:    e.handleBookingConfirmation,

		{models.StepBookingDetails, models.SubStepNone}:    e.handleBookingDetails,
		{models.StepAIChat, models.SubStepNone}:            e.handleAIChat,
		{models.StepAccountManagement, models.SubStepNone}: e.handleAccountManagement,
		{models.StepPasswordReset, models.SubStepNone}:     e.handlePasswordReset,

		{models.StepPasswordChange, models.SubStepCurrent}: e.handlePasswordCurrent,
		{models.StepPasswordChange, models.SubStepNew}:     e.handlePasswordNew,
		{models.StepPasswordChange, models.SubStepConfirm}: e.handlePasswordConfirm,

		{models.StepProfileCompletion, models.SubStepEmail}:    e.handleCompletionEmail,
		{models.StepProfileCompletion, models.SubStepName}:     e.handleCompletionName,
		{models.StepProfileCompletion, models.SubStepLocation}: e.handleCompletionLocation,
	}
}

// expectedRoutes enumerates every state the session model can be in.
var expectedRoutes = []routeKey{
	{models.StepGreeting, models.SubStepNone},
	{models.StepNewUserProfile, models.SubStepName},
	{models.StepNewUserProfile, models.SubStepEmail},
	{models.StepNewUserProfile, models.SubStepEmailConflict},
	{models.StepNewUserProfile, models.SubStepPassword},
	{models.StepNewUserProfile, models.SubStepLocation},
	{models.StepMainMenu, models.SubStepNone},
	{models.StepBrowseListings, models.SubStepNone},
	{models.StepListingDetails, models.SubStepNone},
	{models.StepBookingFlow, models.SubStepCheckIn},
	{models.StepBookingFlow, models.SubStepCheckOut},
	{models.StepBookingFlow, models.SubStepGuests},
	{models.StepBookingFlow, models.SubStepSpecialRequests},
	{models.StepBookingFlow, models.SubStepConfirmation},
	{models.StepBookingDetails, models.SubStepNone},
	{models.StepAIChat, models.SubStepNone},
	{models.StepAccountManagement, models.SubStepNone},
	{models.StepPasswordReset, models.SubStepNone},
	{models.StepPasswordChange, models.SubStepCurrent},
	{models.StepPasswordChange, models.SubStepNew},
	{models.StepPasswordChange, models.SubStepConfirm},
	{models.StepProfileCompletion, models.SubStepEmail},
	{models.StepProfileCompletion, models.SubStepName},
	{models.StepProfileCompletion, models.SubStepLocation},
}

// validate fails startup when the table and the state space disagree.
func (r routeTable) validate() error {
	seen := make(map[routeKey]bool, len(expectedRoutes))
	for _, key := range expectedRoutes {
		if _, ok := r[key]; !ok {
			return fmt.Errorf("conversation route missing for step %q sub-step %q", key.Step, key.SubStep)
		}
		seen[key] = true
	}
	for key := range r {
		if !seen[key] {
			return fmt.Errorf("conversation route %q/%q has no declared state", key.Step, key.SubStep)
		}
	}
	return nil
}
