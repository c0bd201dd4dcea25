// Package session implements the study session engine: a phase-by-card
// state machine that walks a learner through a fixed card queue, delegates
// rated interactions to the scheduler, and batches the resulting card
// updates for a single flush at session end.
package session
