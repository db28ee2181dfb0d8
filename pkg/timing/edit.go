package timing

import (
	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/errors"
)

// Edit type names used on the wire.
const (
	EditUpsertLink   = "upsert_link"
	EditRemoveLink   = "remove_link"
	EditClearLinks   = "clear_links"
	EditSetNarration = "set_narration"
	EditSetTargets   = "set_targets"
	EditRebind       = "rebind"
)

// EditRequest is the JSON form of an Edit.
type EditRequest struct {
	Type      string               `json:"type"`
	Link      *Link                `json:"link,omitempty"`
	SourceID  string               `json:"source_id,omitempty"`
	Narration *string              `json:"narration,omitempty"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
	Targets   []Element            `json:"targets,omitempty"`
}

// Edit converts the request into a validated Edit.
func (r EditRequest) Edit() (Edit, error) {
	var e Edit
	switch r.Type {
	case EditUpsertLink:
		if r.Link == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s requires a link", r.Type)
		}
		e = UpsertLink{Link: *r.Link}
	case EditRemoveLink:
		if r.SourceID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s requires source_id", r.Type)
		}
		e = RemoveLink{SourceID: r.SourceID}
	case EditClearLinks:
		e = ClearLinks{}
	case EditSetNarration:
		if r.Narration == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s requires narration", r.Type)
		}
		e = SetNarration{Narration: *r.Narration, Alignment: r.Alignment}
	case EditSetTargets:
		e = SetTargets{Targets: r.Targets}
	case EditRebind:
		e = Rebind{}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown edit type %q", r.Type)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
