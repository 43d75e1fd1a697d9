// Package wizard drives multi-step forms.
//
// A Definition lists the fields, one per step, and the values the form starts
// from. State is advanced only through Reduce, a pure function of the
// definition, the previous state and an Action, so every transition can be
// tested without a terminal. Wizard wraps Reduce for callers that want a
// mutable handle and a completion callback.
//
// Validation looks at the current step only. Once a step has been passed it
// is not validated again, even if its value is edited after moving back.
package wizard
