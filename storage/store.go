package storage

import (
	"encoding/json"
	"log"
	"time"

	"github.com/omprakashcoder/flashcardgenerator-v1/models"
)

const (
	setsKeyPrefix    = "flashcard_sets_"
	userKeyPrefix    = "flashcard_user_"
	sessionKeyPrefix = "flashcard_session_"

	// GuestNamespace scopes data saved before a user authenticates.
	GuestNamespace = "guest"
)

// Store provides CRUD over card sets, user profiles, and session
// progress on top of a KV backend. Values are JSON-encoded; missing or
// corrupt data reads as empty rather than failing.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func setsKey(userID string) string {
	if userID == "" {
		return setsKeyPrefix + GuestNamespace
	}
	return setsKeyPrefix + userID
}

func sessionKey(setID, userID string) string {
	ns := userID
	if ns == "" {
		ns = GuestNamespace
	}
	return sessionKeyPrefix + ns + "_" + setID
}

// Sets returns all card sets in the namespace, newest first. Corrupt
// stored data is logged and treated as empty.
func (s *Store) Sets(userID string) []models.CardSet {
	data, ok, err := s.kv.Get(setsKey(userID))
	if err != nil {
		log.Printf("Store.Sets: read failed for key=%s: %v", setsKey(userID), err)
		return []models.CardSet{}
	}
	if !ok {
		return []models.CardSet{}
	}

	var sets []models.CardSet
	if err := json.Unmarshal(data, &sets); err != nil {
		log.Printf("Store.Sets: failed to decode stored sets for key=%s: %v", setsKey(userID), err)
		return []models.CardSet{}
	}
	for i := range sets {
		if sets[i].Cards == nil {
			sets[i].Cards = []models.Flashcard{}
		}
	}
	return sets
}

func (s *Store) writeSets(userID string, sets []models.CardSet) error {
	data, err := json.Marshal(sets)
	if err != nil {
		return err
	}
	return s.kv.Set(setsKey(userID), data)
}

// SaveSet replaces an existing set with the same ID in place, or
// prepends a new one so inserts stay newest-first.
func (s *Store) SaveSet(set models.CardSet, userID string) error {
	sets := s.Sets(userID)
	replaced := false
	for i := range sets {
		if sets[i].ID == set.ID {
			sets[i] = set
			replaced = true
			break
		}
	}
	if !replaced {
		sets = append([]models.CardSet{set}, sets...)
	}
	return s.writeSets(userID, sets)
}

// Set returns one card set by ID, or false when absent.
func (s *Store) Set(setID, userID string) (models.CardSet, bool) {
	for _, set := range s.Sets(userID) {
		if set.ID == setID {
			return set, true
		}
	}
	return models.CardSet{}, false
}

func (s *Store) DeleteSet(setID, userID string) error {
	sets := s.Sets(userID)
	kept := sets[:0]
	for _, set := range sets {
		if set.ID != setID {
			kept = append(kept, set)
		}
	}
	return s.writeSets(userID, kept)
}

// UpdateSetMastery rewrites only the mastery field of the matching set.
func (s *Store) UpdateSetMastery(setID string, masteryPercentage int, userID string) error {
	sets := s.Sets(userID)
	for i := range sets {
		if sets[i].ID == setID {
			sets[i].MasteryPercentage = masteryPercentage
			return s.writeSets(userID, sets)
		}
	}
	return nil
}

// MigrateGuestSets moves every guest set into the user's namespace,
// skipping IDs the user already has, then clears the guest namespace.
// Called once on successful login.
func (s *Store) MigrateGuestSets(userID string) error {
	guestSets := s.Sets("")
	if len(guestSets) == 0 {
		return nil
	}

	userSets := s.Sets(userID)
	existing := make(map[string]bool, len(userSets))
	for _, set := range userSets {
		existing[set.ID] = true
	}

	var migrated []models.CardSet
	for _, set := range guestSets {
		if !existing[set.ID] {
			migrated = append(migrated, set)
		}
	}
	if len(migrated) > 0 {
		if err := s.writeSets(userID, append(migrated, userSets...)); err != nil {
			return err
		}
	}
	return s.kv.Delete(setsKey(""))
}

// User returns the stored profile for the ID, or nil when absent or
// unreadable.
func (s *Store) User(userID string) *models.User {
	data, ok, err := s.kv.Get(userKeyPrefix + userID)
	if err != nil || !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Printf("Store.User: failed to decode profile for id=%s: %v", userID, err)
		return nil
	}
	return &user
}

func (s *Store) SaveUser(user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.kv.Set(userKeyPrefix+user.ID, data)
}

// SaveSessionProgress overwrites the session snapshot for the set. The
// stored timestamp is always refreshed.
func (s *Store) SaveSessionProgress(setID string, progress models.SessionProgress, userID string) error {
	progress.SetID = setID
	progress.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return s.kv.Set(sessionKey(setID, userID), data)
}

// SessionProgress returns the stored snapshot, or nil when absent or
// unreadable.
func (s *Store) SessionProgress(setID, userID string) *models.SessionProgress {
	data, ok, err := s.kv.Get(sessionKey(setID, userID))
	if err != nil || !ok {
		return nil
	}
	var progress models.SessionProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil
	}
	return &progress
}

func (s *Store) ClearSessionProgress(setID, userID string) error {
	return s.kv.Delete(sessionKey(setID, userID))
}
