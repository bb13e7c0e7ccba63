// Package workflow validates status changes against a per-entity transition table.
package workflow

import (
	"strings"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
)

type Machine[S ~string] struct {
	Initial     S
	Transitions map[S][]S
	Terminal    []S
	Actors      []auth.Role
}

// States lists every status the machine knows, initial first.
func (m Machine[S]) States() []S {
	seen := map[S]bool{m.Initial: true}
	out := []S{m.Initial}
	add := func(s S) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for from, targets := range m.Transitions {
		add(from)
		for _, to := range targets {
			add(to)
		}
	}
	for _, s := range m.Terminal {
		add(s)
	}
	return out
}

func (m Machine[S]) Known(s S) bool {
	for _, candidate := range m.States() {
		if candidate == s {
			return true
		}
	}
	return false
}

// Parse normalizes raw and checks it against the machine's states.
func (m Machine[S]) Parse(raw string) (S, bool) {
	s := S(strings.ToLower(strings.TrimSpace(raw)))
	return s, m.Known(s)
}

func (m Machine[S]) IsTerminal(s S) bool {
	for _, t := range m.Terminal {
		if t == s {
			return true
		}
	}
	return false
}

func (m Machine[S]) Allowed(role auth.Role) bool {
	for _, r := range m.Actors {
		if r == role {
			return true
		}
	}
	return false
}

func (m Machine[S]) CanMove(from, to S) bool {
	for _, candidate := range m.Transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Decide checks a requested change. apply is false when next equals current,
// which callers treat as a successful no-op.
func (m Machine[S]) Decide(current, next S, role auth.Role) (apply bool, err error) {
	if !m.Known(next) {
		return false, apperr.Validation("unknown status", apperr.FieldIssue{Field: "status", Reason: "must be one of " + m.joined()})
	}
	if !m.Allowed(role) {
		return false, apperr.Forbidden("role " + string(role) + " cannot change this status")
	}
	if next == current {
		return false, nil
	}
	if m.IsTerminal(current) || !m.CanMove(current, next) {
		return false, apperr.InvalidTransition(string(current), string(next))
	}
	return true, nil
}

func (m Machine[S]) joined() string {
	states := m.States()
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
