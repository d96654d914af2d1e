package images

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/model"
)

// Draft is one secondary image as held by an open edit form. Rows loaded from
// the store carry a persisted ref; rows added in the form carry a pending ref
// until the save commits.
type Draft struct {
	Ref      model.ImageRef
	Spec     model.ImageSpec
	Position int
}

// EditSet is the in-memory ordered image list behind the edit form. Add, move
// and remove touch only memory; nothing reaches the store before Save builds
// and applies a Plan.
type EditSet struct {
	drafts []Draft
}

// NewEditSet seeds an edit set from the persisted child collection.
func NewEditSet(persisted []model.SecondaryImage) *EditSet {
	s := &EditSet{drafts: make([]Draft, 0, len(persisted))}
	for _, img := range persisted {
		s.drafts = append(s.drafts, Draft{
			Ref:      model.PersistedRef(img.ID),
			Spec:     img.Spec,
			Position: img.Position,
		})
	}
	s.sort()
	return s
}

// EditSetFromDrafts rebuilds an edit set from drafts carried across a
// request boundary, such as a submitted edit form.
func EditSetFromDrafts(drafts []Draft) *EditSet {
	s := &EditSet{drafts: make([]Draft, len(drafts))}
	copy(s.drafts, drafts)
	s.sort()
	return s
}

// Drafts returns the drafts in position order.
func (s *EditSet) Drafts() []Draft {
	out := make([]Draft, len(s.drafts))
	copy(out, s.drafts)
	return out
}

// Add appends a new image at the end of the ordering and returns its ref.
// The position is max(existing)+1, or 0 for an empty set.
func (s *EditSet) Add(spec model.ImageSpec) model.ImageRef {
	pos := 0
	for _, d := range s.drafts {
		if d.Position >= pos {
			pos = d.Position + 1
		}
	}
	ref := model.PendingRef(uuid.NewString())
	s.drafts = append(s.drafts, Draft{Ref: ref, Spec: spec, Position: pos})
	return ref
}

// Remove drops the draft with the given ref from the set.
func (s *EditSet) Remove(ref model.ImageRef) {
	for i, d := range s.drafts {
		if d.Ref.Key() == ref.Key() {
			s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
			return
		}
	}
}

// MoveUp swaps the draft's position with its predecessor in the sorted order.
// Moving the first draft is a no-op.
func (s *EditSet) MoveUp(ref model.ImageRef) {
	i := s.indexOf(ref)
	if i <= 0 {
		return
	}
	s.swap(i, i-1)
}

// MoveDown swaps the draft's position with its successor in the sorted order.
// Moving the last draft is a no-op.
func (s *EditSet) MoveDown(ref model.ImageRef) {
	i := s.indexOf(ref)
	if i < 0 || i >= len(s.drafts)-1 {
		return
	}
	s.swap(i, i+1)
}

func (s *EditSet) indexOf(ref model.ImageRef) int {
	for i, d := range s.drafts {
		if d.Ref.Key() == ref.Key() {
			return i
		}
	}
	return -1
}

func (s *EditSet) swap(i, j int) {
	s.drafts[i].Position, s.drafts[j].Position = s.drafts[j].Position, s.drafts[i].Position
	s.sort()
}

func (s *EditSet) sort() {
	sort.SliceStable(s.drafts, func(i, j int) bool {
		return s.drafts[i].Position < s.drafts[j].Position
	})
}

// StepKind classifies one sub-operation of a reconciliation plan.
type StepKind string

const (
	// StepDelete removes a persisted row absent from the edited set.
	StepDelete StepKind = "delete"
	// StepInsert creates a row for a pending draft.
	StepInsert StepKind = "insert"
	// StepUpdate rewrites a persisted row's spec and position.
	StepUpdate StepKind = "update"
)

// Step is one sub-operation. Deletes carry only ImageID; inserts and updates
// carry the draft to write.
type Step struct {
	Kind    StepKind
	ImageID string // persisted row id for delete/update
	Draft   Draft
}

// Describe names the step for the partial-failure notification.
func (st Step) Describe() string {
	switch st.Kind {
	case StepDelete:
		return fmt.Sprintf("delete image %s", st.ImageID)
	case StepInsert:
		return fmt.Sprintf("insert image at position %d", st.Draft.Position)
	default:
		return fmt.Sprintf("update image %s", st.ImageID)
	}
}

// Plan is the ordered sub-operation list reconciling the edited set against
// the persisted collection: deletes first, then one insert or update per
// remaining draft in position order. The plan is an explicit intent log; there
// is no transaction around it.
type Plan struct {
	OwnerID string
	Steps   []Step
}

// BuildPlan diffs the edited set against the persisted child collection.
func BuildPlan(ownerID string, persisted []model.SecondaryImage, edited *EditSet) Plan {
	plan := Plan{OwnerID: ownerID}

	kept := make(map[string]bool)
	for _, d := range edited.drafts {
		if d.Ref.IsPersisted() {
			kept[d.Ref.ID()] = true
		}
	}
	for _, img := range persisted {
		if !kept[img.ID] {
			plan.Steps = append(plan.Steps, Step{Kind: StepDelete, ImageID: img.ID})
		}
	}

	for _, d := range edited.Drafts() {
		if d.Ref.IsPersisted() {
			plan.Steps = append(plan.Steps, Step{Kind: StepUpdate, ImageID: d.Ref.ID(), Draft: d})
		} else {
			plan.Steps = append(plan.Steps, Step{Kind: StepInsert, Draft: d})
		}
	}
	return plan
}

// ImageStore is the subset of the reference repository a plan application
// needs.
type ImageStore interface {
	InsertImage(ctx context.Context, img *model.SecondaryImage) error
	UpdateImage(ctx context.Context, img *model.SecondaryImage) error
	DeleteImage(ctx context.Context, id string) error
}

// StepResult records one step's outcome in the intent log.
type StepResult struct {
	Step Step
	Err  error
}

// ApplyPlan runs the plan's steps in order against the store, recording each
// outcome. Application stops at the first failure: earlier steps are not
// rolled back, later steps are not attempted, and the returned error names
// the failed step so the admin can retry it. The full result log is returned
// either way.
func ApplyPlan(ctx context.Context, store ImageStore, plan Plan) ([]StepResult, error) {
	results := make([]StepResult, 0, len(plan.Steps))
	for _, st := range plan.Steps {
		var err error
		switch st.Kind {
		case StepDelete:
			err = store.DeleteImage(ctx, st.ImageID)
		case StepInsert:
			err = store.InsertImage(ctx, &model.SecondaryImage{
				OwnerID:  plan.OwnerID,
				Spec:     st.Draft.Spec,
				Position: st.Draft.Position,
			})
		case StepUpdate:
			err = store.UpdateImage(ctx, &model.SecondaryImage{
				ID:       st.ImageID,
				OwnerID:  plan.OwnerID,
				Spec:     st.Draft.Spec,
				Position: st.Draft.Position,
			})
		}
		results = append(results, StepResult{Step: st, Err: err})
		if err != nil {
			return results, model.NewPartialFailureError(st.Describe())
		}
	}
	return results, nil
}
