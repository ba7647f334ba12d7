// Package cache is a keyed read cache in front of hotel and booking reads.
// The mapping from each mutation to the keys it invalidates is a declared
// table (Event.Keys) so it can be tested without HTTP or a database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrMiss is returned by Store.Get when the key has no live entry.
var ErrMiss = errors.New("cache: miss")

// Store is the shared cache surface. Production uses Redis; local
// development and tests use the in-memory substitute.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key builders. Every cached read and every invalidation goes through these.

func HotelsKey() string              { return "hotels" }
func HotelKey(id uint) string        { return fmt.Sprintf("hotel:%d", id) }
func AllBookingsKey() string         { return "bookings:all" }
func UserBookingsKey(id uint) string { return fmt.Sprintf("bookings:user:%d", id) }

// Mutation names the state-changing operations the cache cares about.
type Mutation int

const (
	HotelCreated Mutation = iota
	HotelUpdated
	HotelDeleted
	BookingCreated
	BookingDeleted
)

// Event is one committed mutation. HotelID/UserID are set where the
// mutation concerns a specific record.
type Event struct {
	Mutation Mutation
	HotelID  uint
	UserID   uint
}

// Keys returns the cache keys the event invalidates.
func (e Event) Keys() []string {
	switch e.Mutation {
	case HotelCreated:
		return []string{HotelsKey()}
	case HotelUpdated:
		return []string{HotelsKey(), HotelKey(e.HotelID)}
	case HotelDeleted:
		// cancelled bookings of the deleted hotel make every booking list stale
		return []string{HotelsKey(), HotelKey(e.HotelID), AllBookingsKey()}
	case BookingCreated, BookingDeleted:
		return []string{AllBookingsKey(), UserBookingsKey(e.UserID)}
	default:
		return nil
	}
}

// Invalidate drops the event's keys. Called only after the mutation
// committed; a failed mutation never touches the cache.
func Invalidate(ctx context.Context, store Store, e Event) {
	if store == nil {
		return
	}
	if err := store.Delete(ctx, e.Keys()...); err != nil {
		log.Printf("cache: invalidation failed for %v: %v", e.Keys(), err)
	}
}

// GetJSON reads key and unmarshals into out. Any backend error is treated
// as a miss so reads degrade to the database.
func GetJSON(ctx context.Context, store Store, key string, out any) bool {
	if store == nil {
		return false
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("cache: get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("cache: corrupt entry at %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores value under key, best-effort.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) {
	if store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: marshal for %s: %v", key, err)
		return
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}
