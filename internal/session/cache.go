// internal/session/cache.go
//
// Tiny LRU for validated sessions.  Keys are token hashes; values are the
// rows already fetched from SQLite.  Expiry is still checked by the Store
// on every hit, so the cache never extends a session's life.  A mutex
// guards the list because Validate runs on every authenticated request.
package session

import (
	"container/list"
	"sync"
)

type lru struct {
	mu   sync.Mutex
	cap  int
	ll   *list.List
	dict map[string]*list.Element
}

type pair struct {
	key  string
	sess *Session
}

func newLRU(capacity int) *lru {
	if capacity < 1 {
		panic("session: cache capacity must be ≥1")
	}
	return &lru{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// get retrieves a session and marks it MRU.
func (c *lru) get(key string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair).sess, true
	}
	return nil, false
}

// add inserts or refreshes an entry, evicting the LRU tail past capacity.
func (c *lru) add(key string, sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair{key, sess}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair{key, sess})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair).key)
	}
}

// remove drops an entry; absent keys are a no-op.
func (c *lru) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.Remove(ele)
		delete(c.dict, key)
	}
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
