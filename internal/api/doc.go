// Package api provides the HTTP handlers for the study engine: the session
// lifecycle, the postpone operation, and the activity heatmap query.
package api
