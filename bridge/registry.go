package bridge

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Registry tracks live reader views in creation order. Some hosting UI
// frameworks construct a replacement view before the previous one is fully
// removed during a remount; before a view builds its engine session it asks
// the registry to force-detach any older sibling so at most one session is
// visibly attached at a time. The registry's lifetime is scoped to whatever
// owns the view tree, it is not a process-wide singleton.
type Registry struct {
	log *zap.Logger

	mu    sync.Mutex
	seq   uint64
	views []*View
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log.Named("registry")}
}

func (r *Registry) register(v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	v.order = r.seq
	r.views = append(r.views, v)
}

func (r *Registry) unregister(v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = slices.DeleteFunc(r.views, func(o *View) bool { return o == v })
}

// Live returns the number of registered views.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// detachStale force-detaches every view created before the given one.
// Detaching mutates the registry, so the stale list is snapshotted first.
func (r *Registry) detachStale(newest *View) {
	r.mu.Lock()
	var stale []*View
	for _, v := range r.views {
		if v.order < newest.order {
			stale = append(stale, v)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		r.log.Warn("Force detaching stale reader view", zap.String("view", v.id.String()))
		if err := v.Detach(); err != nil {
			r.log.Warn("Stale reader view did not detach cleanly", zap.String("view", v.id.String()), zap.Error(err))
		}
	}
}
