package core

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// keyedMutex serializes operations per room id without a global lock: events
// for the same room contend on one shard while events for different rooms
// proceed concurrently (modulo shard collisions).
type keyedMutex struct {
	shards [lockShards]sync.Mutex
}

func (km *keyedMutex) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % lockShards)
}

func (km *keyedMutex) Lock(key string) {
	km.shards[km.index(key)].Lock()
}

func (km *keyedMutex) Unlock(key string) {
	km.shards[km.index(key)].Unlock()
}

// LockPair acquires the shards for both keys in index order so that
// cross-room moves cannot deadlock against each other. Keys sharing a shard
// are locked once.
func (km *keyedMutex) LockPair(a, b string) {
	i, j := km.index(a), km.index(b)
	if i == j {
		km.shards[i].Lock()
		return
	}
	if i > j {
		i, j = j, i
	}
	km.shards[i].Lock()
	km.shards[j].Lock()
}

// UnlockPair releases the shards acquired by LockPair.
func (km *keyedMutex) UnlockPair(a, b string) {
	i, j := km.index(a), km.index(b)
	if i == j {
		km.shards[i].Unlock()
		return
	}
	km.shards[i].Unlock()
	km.shards[j].Unlock()
}
