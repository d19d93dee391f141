// Package guard gates route rendering behind role allow-lists.
//
// A guard is a three-state machine: Pending until the session store has
// hydrated, then exactly one transition to Allowed or Denied. The
// pending gate is the whole point: deciding before hydration completes
// is the classic flash-redirect bug, where a legitimately authenticated
// user is bounced to the login page because the check ran against the
// empty pre-hydration state.
//
// Denials navigate (history replace, not push) to the user's
// role-appropriate landing route via [RoleRoute], the single
// role-to-route table every guard shares.
//
//	g := guard.New(authStore, nav, []string{guard.RoleInstructor})
//	<-g.Start(ctx)
//	if g.State() == guard.Allowed {
//	    render()
//	}
package guard
