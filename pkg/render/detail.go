package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/offerdeck/offerdeck/pkg/offers"
)

// DetailData feeds the offer detail fragment. CanDecide enables the
// accept/reject buttons (a candidate who has not signed yet); CanSign
// enables the e-sign button.
type DetailData struct {
	Offer     offers.Offer
	CanDecide bool
	CanSign   bool
}

// Created formats the offer creation time, empty when the server omitted
// it.
func (d DetailData) Created() string {
	if d.Offer.CreatedAt == nil {
		return ""
	}
	return FormatTime(*d.Offer.CreatedAt)
}

// RenderDetail renders the offer detail dialog body.
func (v *TableView) RenderDetail(data DetailData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.detail.ExecuteTemplate(&buf, "detail", data); err != nil {
		return "", fmt.Errorf("rendering offer detail: %w", err)
	}
	return template.HTML(buf.String()), nil
}

const detailTemplate = `{{define "detail"}}
<div class="detail" data-id="{{.Offer.ID}}">
  <h2>Offer details</h2>
  <dl>
    <dt>Name</dt><dd>{{.Offer.Name}}</dd>
    <dt>Position</dt><dd>{{.Offer.Position}}</dd>
    <dt>Salary</dt><dd>{{.Offer.Salary}}</dd>
    <dt>Status</dt><dd><span class="{{statusClass (printf "%s" .Offer.Status)}}">{{title (printf "%s" .Offer.Status)}}</span></dd>
    <dt>Recruiter</dt><dd>{{.Offer.Recruiter.FullName}} &lt;{{.Offer.Recruiter.Email}}&gt;</dd>
    <dt>Candidate</dt><dd>{{.Offer.Candidate.FullName}} &lt;{{.Offer.Candidate.Email}}&gt;</dd>
    <dt>Signatures</dt>
    <dd>
      Recruiter: {{if .Offer.ESignByRecruiter}}signed{{else}}not signed{{end}}<br>
      Candidate: {{if .Offer.ESignByCandidate}}signed{{else}}not signed{{end}}
    </dd>
    {{with .Created}}<dt>Created</dt><dd>{{.}}</dd>{{end}}
  </dl>
  <div class="detail-actions">
    {{if .CanDecide}}
    <button type="button" class="detail-action" data-action="accept" data-id="{{.Offer.ID}}">Accept</button>
    <button type="button" class="detail-action danger" data-action="reject" data-id="{{.Offer.ID}}">Reject</button>
    {{end}}
    {{if .CanSign}}
    <button type="button" class="detail-action" data-action="e-sign" data-id="{{.Offer.ID}}">Sign offer</button>
    {{end}}
    <button type="button" class="detail-close">Close</button>
  </div>
</div>
{{end}}`
