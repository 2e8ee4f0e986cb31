package permission

import "time"

// Target is an entity an action is authorized against.
type Target interface {
	TargetKind() TargetKind
	TargetID() string
}

// Creatable is implemented by targets that record the worker they count as
// created by. For cases that is the worker the case was opened for, which is
// not necessarily the account that submitted it.
type Creatable interface {
	CreatorID() string
}

// Owned is implemented by targets that have an owning worker.
type Owned interface {
	OwnerID() string
}

// StatusBearer is implemented by targets with a lifecycle status.
type StatusBearer interface {
	StatusValue() string
}

// Timestamped is implemented by targets that record their creation time.
type Timestamped interface {
	CreatedAt() time.Time
}
