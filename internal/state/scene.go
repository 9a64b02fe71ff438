package state

import "SketchBoard/internal/geom"

// Scene is the ordered list of objects on the canvas. Later objects are drawn on top and
// win hit-tests. A Scene is not safe for concurrent use; the engine serializes access.
type Scene struct {
	objects []Object
}

// NewScene builds a scene from deep copies of objs, recomputing every bounding box.
func NewScene(objs []Object) *Scene {
	s := &Scene{}
	s.Replace(objs)
	return s
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Add appends o on top of the scene.
func (s *Scene) Add(o Object) {
	s.objects = append(s.objects, o)
}

// Replace swaps the whole scene for deep copies of objs.
func (s *Scene) Replace(objs []Object) {
	s.objects = make([]Object, 0, len(objs))
	for _, o := range objs {
		c := o.Clone()
		c.UpdateBounds()
		s.objects = append(s.objects, c)
	}
}

// Snapshot returns a deep copy of every object in scene order.
func (s *Scene) Snapshot() []Object {
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o.Clone()
	}
	return out
}

// Each calls fn for every object in drawing order. fn must not retain o.
func (s *Scene) Each(fn func(o *Object)) {
	for i := range s.objects {
		fn(&s.objects[i])
	}
}

// Get returns the object with the given id for in-place mutation.
func (s *Scene) Get(id string) (*Object, bool) {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return &s.objects[i], true
		}
	}
	return nil, false
}

// Has reports whether an object with id exists.
func (s *Scene) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Remove deletes every object whose id is in ids and returns how many were removed.
func (s *Scene) Remove(ids ...string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.objects[:0]
	removed := 0
	for _, o := range s.objects {
		if drop[o.ID] {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	// drop references held by the backing array
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = Object{}
	}
	s.objects = kept
	return removed
}

// HitTest returns the id of the topmost object whose bounds contain p. The object with id
// skip, if any, is ignored.
func (s *Scene) HitTest(p geom.Point, skip string) (string, bool) {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := &s.objects[i]
		if o.ID == skip {
			continue
		}
		if o.Bounds.Contains(p) {
			return o.ID, true
		}
	}
	return "", false
}

// Bounds returns the union of every object's bounds; ok is false for an empty scene.
func (s *Scene) Bounds() (r geom.Rect, ok bool) {
	for i, o := range s.objects {
		if i == 0 {
			r = o.Bounds
			continue
		}
		r = r.Union(o.Bounds)
	}
	return r, len(s.objects) > 0
}
