/* Copyright 2025 Giftwise Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package state provides the in-memory view of the local entities that the
// user interface reads from
package state

import (
	"sort"
	"sync"

	"github.com/giftwise/giftwise/pkg/cli/database"
	"github.com/pkg/errors"
)

// Event describes a change to the view
type Event struct {
	Kind database.Kind
	ID   string
	// Removed is true if the entity left the view
	Removed bool
}

// View holds the current entities of every kind, keyed by id. It is owned by
// a session and injected into the components that write to it.
type View struct {
	mu       sync.RWMutex
	entities map[database.Kind]map[string]database.Entity

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewView returns an empty view
func NewView() *View {
	v := &View{
		entities: map[database.Kind]map[string]database.Entity{},
		subs:     map[int]func(Event){},
	}
	for _, k := range database.Kinds {
		v.entities[k] = map[string]database.Entity{}
	}

	return v
}

// Subscribe registers fn to be called after every change. It returns a
// function that removes the subscription.
func (v *View) Subscribe(fn func(Event)) func() {
	v.subMu.Lock()
	defer v.subMu.Unlock()

	id := v.nextID
	v.nextID++
	v.subs[id] = fn

	return func() {
		v.subMu.Lock()
		defer v.subMu.Unlock()

		delete(v.subs, id)
	}
}

func (v *View) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	v.subMu.Lock()
	fns := make([]func(Event), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.subMu.Unlock()

	for _, e := range events {
		for _, fn := range fns {
			fn(e)
		}
	}
}

func (v *View) put(e database.Entity) Event {
	v.entities[e.EntityKind()][e.EntityID()] = e
	return Event{Kind: e.EntityKind(), ID: e.EntityID()}
}

func (v *View) remove(kind database.Kind, id string) (Event, bool) {
	if _, ok := v.entities[kind][id]; !ok {
		return Event{}, false
	}

	delete(v.entities[kind], id)
	return Event{Kind: kind, ID: id, Removed: true}, true
}

// Put adds or replaces the entity
func (v *View) Put(e database.Entity) {
	v.PutAll([]database.Entity{e})
}

// PutAll adds or replaces the entities
func (v *View) PutAll(es []database.Entity) {
	v.mu.Lock()
	events := make([]Event, 0, len(es))
	for _, e := range es {
		events = append(events, v.put(e))
	}
	v.mu.Unlock()

	v.publish(events)
}

// Remove removes the entity. It does not touch the entities referencing it.
func (v *View) Remove(kind database.Kind, id string) {
	v.mu.Lock()
	ev, ok := v.remove(kind, id)
	v.mu.Unlock()

	if ok {
		v.publish([]Event{ev})
	}
}

// Replace swaps the entity known as oldID for e and points the entities
// referencing oldID to the id of e
func (v *View) Replace(kind database.Kind, oldID string, e database.Entity) {
	v.mu.Lock()
	var events []Event

	newID := e.EntityID()
	if oldID != newID {
		if ev, ok := v.remove(kind, oldID); ok {
			events = append(events, ev)
		}

		for _, k := range database.Kinds {
			for id, child := range v.entities[k] {
				for _, ref := range child.Refs() {
					if ref.Kind == kind && ref.ID == oldID {
						v.entities[k][id] = child.RemapRef(kind, oldID, newID)
						events = append(events, Event{Kind: k, ID: id})
						break
					}
				}
			}
		}
	}
	events = append(events, v.put(e))
	v.mu.Unlock()

	v.publish(events)
}

// ApplyCascade applies a delete to the view the way the store applies it
func (v *View) ApplyCascade(c database.Cascade) {
	v.mu.Lock()
	var events []Event
	for _, e := range c.Removed {
		if ev, ok := v.remove(e.EntityKind(), e.EntityID()); ok {
			events = append(events, ev)
		}
	}
	// the entity may be in the view without a stored row
	if ev, ok := v.remove(c.Kind, c.ID); ok {
		events = append(events, ev)
	}
	for _, g := range c.DetachedAfter() {
		events = append(events, v.put(g))
	}
	v.mu.Unlock()

	v.publish(events)
}

// RestoreCascade undoes ApplyCascade
func (v *View) RestoreCascade(c database.Cascade) {
	es := make([]database.Entity, 0, len(c.Removed)+len(c.Detached))
	es = append(es, c.Removed...)
	for _, g := range c.Detached {
		es = append(es, g)
	}

	v.PutAll(es)
}

// Get returns the entity with the given kind and id
func (v *View) Get(kind database.Kind, id string) (database.Entity, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	e, ok := v.entities[kind][id]
	return e, ok
}

// Len returns the number of entities of the given kind
func (v *View) Len(kind database.Kind) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.entities[kind])
}

// List returns the entities of the given kind sorted by id
func (v *View) List(kind database.Kind) []database.Entity {
	v.mu.RLock()
	ret := make([]database.Entity, 0, len(v.entities[kind]))
	for _, e := range v.entities[kind] {
		ret = append(ret, e)
	}
	v.mu.RUnlock()

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].EntityID() < ret[j].EntityID()
	})

	return ret
}

// Load replaces the content of the view with the stored entities of the owner
func (v *View) Load(db *database.DB, ownerID string) error {
	loaded := map[database.Kind]map[string]database.Entity{}

	for _, k := range database.Kinds {
		s, err := database.StoreFor(k)
		if err != nil {
			return err
		}

		es, err := s.ListEntities(db, ownerID)
		if err != nil {
			return errors.Wrapf(err, "loading %s", k)
		}

		loaded[k] = map[string]database.Entity{}
		for _, e := range es {
			loaded[k][e.EntityID()] = e
		}
	}

	v.mu.Lock()
	v.entities = loaded
	v.mu.Unlock()

	return nil
}

// Typed returns the entities of type E in the view, sorted by id
func Typed[E database.Entity](v *View, kind database.Kind) []E {
	es := v.List(kind)

	ret := make([]E, 0, len(es))
	for _, e := range es {
		if t, ok := e.(E); ok {
			ret = append(ret, t)
		}
	}

	return ret
}
