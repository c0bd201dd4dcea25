// Package store provides abstractions and errors for data persistence.
package store
