// Package service contains the application services that orchestrate domain
// logic, persistence, and events behind the session lifecycle the callers
// consume.
package service
