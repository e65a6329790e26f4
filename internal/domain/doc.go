// Package domain defines the core business entities of the vocabulary
// learning engine: cards and their organizational containers, per-card
// review state, study sessions and their task lists, scored tests, and
// per-user study settings.
package domain
