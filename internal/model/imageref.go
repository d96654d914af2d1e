package model

// ImageRef identifies a secondary image during form editing. A row loaded from
// the store carries its persisted id; a row added in the form carries a local
// token until the save commits. The tag, not the id shape, decides which is
// which, so a real id can never collide with the "unsaved" convention.
type ImageRef struct {
	persisted  bool
	id         string
	localToken string
}

// PersistedRef returns a reference to an already-stored row.
func PersistedRef(id string) ImageRef {
	return ImageRef{persisted: true, id: id}
}

// PendingRef returns a reference to a row that exists only in the form.
func PendingRef(token string) ImageRef {
	return ImageRef{localToken: token}
}

// IsPersisted reports whether the reference points at a stored row.
func (r ImageRef) IsPersisted() bool { return r.persisted }

// ID returns the persisted row id. Empty for pending references.
func (r ImageRef) ID() string {
	if !r.persisted {
		return ""
	}
	return r.id
}

// Token returns the local token. Empty for persisted references.
func (r ImageRef) Token() string {
	if r.persisted {
		return ""
	}
	return r.localToken
}

// Key returns a map key unique across both variants of one edit session.
func (r ImageRef) Key() string {
	if r.persisted {
		return "p:" + r.id
	}
	return "n:" + r.localToken
}
