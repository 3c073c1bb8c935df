package offers

import (
	"github.com/offerdeck/offerdeck/pkg/table"
)

// FilterFields declares which offer fields are filterable and how.
func FilterFields() table.Fields {
	statusOptions := make([]table.Option, 0, len(Statuses()))
	for _, s := range Statuses() {
		statusOptions = append(statusOptions, table.Option{Label: string(s), Value: string(s)})
	}
	signedOptions := []table.Option{
		{Label: "Signed", Value: "true"},
		{Label: "Not Signed", Value: "false"},
	}

	return table.Fields{
		{Label: "Name", Key: "name", Kind: table.KindText},
		{Label: "Position", Key: "position", Kind: table.KindText},
		{Label: "Salary", Key: "salary", Kind: table.KindText},
		{Label: "Status", Key: "status", Kind: table.KindCheckbox, Options: statusOptions},
		{Label: "Recruiter Signature", Key: "eSignByRecruiter", Kind: table.KindCheckbox, Options: signedOptions},
		{Label: "Candidate Signature", Key: "eSignByCandidate", Kind: table.KindCheckbox, Options: signedOptions},
		{Label: "Created", Key: "createdAt", Kind: table.KindTimeRange},
	}
}

// Columns declares the offer table columns.
func Columns() []table.Column[Offer] {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	return []table.Column[Offer]{
		{
			Key:      "name",
			Title:    "Offer Name",
			Sortable: true,
			Value:    func(o Offer) any { return o.Name },
		},
		{
			Key:    "recruiter",
			Title:  "Recruiter",
			Value:  func(o Offer) any { return o.Recruiter },
			Render: func(o Offer) string { return o.Recruiter.FullName() },
		},
		{
			Key:    "candidate",
			Title:  "Candidate",
			Value:  func(o Offer) any { return o.Candidate },
			Render: func(o Offer) string { return o.Candidate.FullName() },
		},
		{
			Key:      "position",
			Title:    "Position",
			Sortable: true,
			Value:    func(o Offer) any { return o.Position },
		},
		{
			Key:      "salary",
			Title:    "Salary",
			Sortable: true,
			Value:    func(o Offer) any { return o.Salary },
		},
		{
			Key:      "status",
			Title:    "Status",
			Sortable: true,
			Value:    func(o Offer) any { return string(o.Status) },
		},
		{
			Key:    "eSignByRecruiter",
			Title:  "Recruiter Signed",
			Value:  func(o Offer) any { return o.ESignByRecruiter },
			Render: func(o Offer) string { return yesNo(o.ESignByRecruiter) },
		},
		{
			Key:    "eSignByCandidate",
			Title:  "Candidate Signed",
			Value:  func(o Offer) any { return o.ESignByCandidate },
			Render: func(o Offer) string { return yesNo(o.ESignByCandidate) },
		},
		{
			Key:           "createdAt",
			Title:         "Created",
			Sortable:      true,
			DefaultHidden: true,
			Value: func(o Offer) any {
				if o.CreatedAt == nil {
					return nil
				}
				return *o.CreatedAt
			},
			Render: func(o Offer) string {
				if o.CreatedAt == nil {
					return ""
				}
				return o.CreatedAt.Format("2006-01-02")
			},
		},
	}
}

// SortFieldMap remaps UI column keys to the server's sort field names
// where they differ.
func SortFieldMap() map[string]string {
	return map[string]string{
		"recruiter": "recruiter.lastName",
		"candidate": "candidate.lastName",
	}
}
