// Package offers holds the wire types of the remote offers service and
// the table configuration (filter fields, columns, sort remapping) for
// rendering them.
package offers

import (
	"fmt"
	"strings"
	"time"
)

// Status is the server-owned offer lifecycle state.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Statuses lists every known status, in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusRejected}
}

// Party is a person attached to an offer.
type Party struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns "First Last", tolerating missing halves.
func (p Party) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Offer is the offer entity as served by the remote API.
type Offer struct {
	ID               string     `json:"_id"`
	Name             string     `json:"name"`
	Recruiter        Party      `json:"recruiter"`
	Candidate        Party      `json:"candidate"`
	Position         string     `json:"position"`
	Salary           string     `json:"salary"`
	Status           Status     `json:"status"`
	ESignByRecruiter bool       `json:"eSignByRecruiter"`
	ESignByCandidate bool       `json:"eSignByCandidate"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// Role is the caller role reported by the identity lookup. Role semantics
// are owned by the backend; offerdeck only routes and gates affordances.
type Role string

const (
	RoleRecruiter Role = "RECRUITER"
	RoleCandidate Role = "CANDIDATE"
)

// User is the identity record returned by the user endpoint.
type User struct {
	ID          string   `json:"_id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Can reports whether the user carries the named permission.
func (u *User) Can(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CanSign applies the e-sign affordance rule: a recruiter may sign an
// offer they have not signed yet; a candidate may sign only an accepted
// offer they have not signed yet.
func CanSign(role Role, o Offer) bool {
	switch role {
	case RoleCandidate:
		return o.Status == StatusAccepted && !o.ESignByCandidate
	case RoleRecruiter:
		return !o.ESignByRecruiter
	default:
		return false
	}
}

// CreateOffer is the input for creating an offer.
type CreateOffer struct {
	Name      string `json:"name"`
	Candidate Party  `json:"candidate"`
	Position  string `json:"position"`
	Salary    string `json:"salary"`
}

// FieldErrors maps an input field name to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the declared input shape locally. A non-nil result means
// no network call should be issued; messages are per-field.
func (c CreateOffer) Validate() FieldErrors {
	errs := make(FieldErrors)
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "Offer name is required"
	}
	if strings.TrimSpace(c.Position) == "" {
		errs["position"] = "Position is required"
	}
	if strings.TrimSpace(c.Salary) == "" {
		errs["salary"] = "Salary is required"
	}
	if strings.TrimSpace(c.Candidate.FirstName) == "" {
		errs["candidate.firstName"] = "First name is required"
	}
	if !validEmail(c.Candidate.Email) {
		errs["candidate.email"] = "Invalid email"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}
