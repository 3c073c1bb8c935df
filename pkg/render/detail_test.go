package render

import (
	"strings"
	"testing"
	"time"

	"github.com/offerdeck/offerdeck/pkg/offers"
)

func sampleOffer() offers.Offer {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return offers.Offer{
		ID:       "o1",
		Name:     "Backend role",
		Position: "Engineer",
		Salary:   "90000",
		Status:   offers.StatusAccepted,
		Recruiter: offers.Party{
			FirstName: "Rae", LastName: "Cruz", Email: "rae@example.com",
		},
		Candidate: offers.Party{
			FirstName: "Sam", LastName: "Lee", Email: "sam@example.com",
		},
		ESignByRecruiter: true,
		CreatedAt:        &created,
	}
}

func TestRenderDetail(t *testing.T) {
	view := NewTableView()
	html, err := view.RenderDetail(DetailData{Offer: sampleOffer(), CanSign: true, CanDecide: true})
	if err != nil {
		t.Fatalf("RenderDetail: %v", err)
	}
	out := string(html)

	for _, want := range []string{
		`data-id="o1"`,
		"Backend role",
		"Engineer",
		"badge badge-accepted",
		"Rae Cruz",
		"sam@example.com",
		`data-action="accept"`,
		`data-action="reject"`,
		`data-action="e-sign"`,
		"Mar 1, 2024",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
}

func TestRenderDetailHidesActions(t *testing.T) {
	view := NewTableView()
	html, err := view.RenderDetail(DetailData{Offer: sampleOffer()})
	if err != nil {
		t.Fatalf("RenderDetail: %v", err)
	}
	out := string(html)
	if strings.Contains(out, "data-action=") {
		t.Error("detail should carry no action buttons without affordances")
	}
}
