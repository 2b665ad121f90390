// Package provider holds the fixed catalog of authentication providers the
// init-stack CLI knows how to configure.
package provider

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Provider describes one selectable authentication method.
type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// catalog order is display order.
var catalog = []Provider{
	{ID: "google", Name: "Google", Description: "Sign in with Google account", Icon: "G"},
	{ID: "github", Name: "GitHub", Description: "Sign in with GitHub account", Icon: "⌥"},
	{ID: "email", Name: "Email + Password", Description: "Traditional email and password authentication", Icon: "✉"},
	{ID: "otp", Name: "OTP", Description: "One-time password authentication", Icon: "#"},
	{ID: "facebook", Name: "Facebook", Description: "Sign in with Facebook account", Icon: "f"},
}

// ErrNoProviders is returned by ParseList when the values hold no ids.
var ErrNoProviders = errors.New("no providers given")

// UnknownProviderError reports identifiers that are not in the catalog.
type UnknownProviderError struct {
	IDs []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider(s) %s (known: %s)",
		strings.Join(e.IDs, ", "), strings.Join(IDs(), ", "))
}

// All returns a copy of the catalog in display order.
func All() []Provider {
	return slices.Clone(catalog)
}

// IDs returns the catalog identifiers in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}
	return ids
}

func Lookup(id string) (Provider, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Normalize trims and lower-cases an identifier typed by a user.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Validate returns an *UnknownProviderError naming every id outside the catalog.
func Validate(ids []string) error {
	var unknown []string
	for _, id := range ids {
		if !IsKnown(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return &UnknownProviderError{IDs: unknown}
	}
	return nil
}

// Resolve maps ids to descriptors, keeping input order and skipping unknown ids.
func Resolve(ids []string) []Provider {
	out := make([]Provider, 0, len(ids))
	for _, id := range ids {
		if p, ok := Lookup(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// ParseList turns flag values such as ["google,github", "otp"] into a
// normalized, duplicate-free id list in first-seen order. At least one id is
// required.
func ParseList(values []string) ([]string, error) {
	var ids []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			id := Normalize(part)
			if id == "" || slices.Contains(ids, id) {
				continue
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoProviders
	}
	if err := Validate(ids); err != nil {
		return nil, err
	}
	return ids, nil
}
