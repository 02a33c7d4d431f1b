package models

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown entity kind")

// Kind describes which content entity a deployment manages.
type Kind struct {
	Name   string // singular, e.g. "event"
	Plural string // e.g. "events"
	Table  string
	Dated  bool
}

var (
	KindTeam    = Kind{Name: "team", Plural: "teams", Table: "teams"}
	KindProject = Kind{Name: "project", Plural: "projects", Table: "projects"}
	KindEvent   = Kind{Name: "event", Plural: "events", Table: "events", Dated: true}
)

// LookupKind resolves a configured kind name.
func LookupKind(name string) (Kind, error) {
	switch name {
	case KindTeam.Name, KindTeam.Plural:
		return KindTeam, nil
	case KindProject.Name, KindProject.Plural:
		return KindProject, nil
	case KindEvent.Name, KindEvent.Plural:
		return KindEvent, nil
	}
	return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
