// Package events provides a small in-memory publish/subscribe mechanism for
// study engine events, decoupling the session lifecycle from whatever wants
// to observe it (logging, notifications, redelivery of failed flushes).
package events
