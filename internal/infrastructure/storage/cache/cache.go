// Package cache stores price lookup results between restarts, either in a
// JSON file next to the bot or in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type FileData struct {
	Key        string    `json:"key"`
	Value      []byte    `json:"value"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type FileDataList struct {
	Entries []FileData `json:"entries"`
}

type FileCache struct {
	mutex    sync.Mutex
	filename string
	now      func() time.Time
}

func NewFileCache(filename string) *FileCache {
	return &FileCache{filename: filename, now: time.Now}
}

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := LoadEntries(c.filename)
	if err != nil {
		return nil, false, err
	}
	for _, entry := range data.Entries {
		if entry.Key == key && c.now().Before(entry.ExpiryDate) {
			return entry.Value, true, nil
		}
	}
	return nil, false, nil
}

// Set replaces the entry under key. Expired entries are dropped on the way.
func (c *FileCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := LoadEntries(c.filename)
	if err != nil {
		return err
	}

	now := c.now()
	valid := make([]FileData, 0, len(data.Entries)+1)
	for _, entry := range data.Entries {
		if entry.Key != key && now.Before(entry.ExpiryDate) {
			valid = append(valid, entry)
		}
	}
	data.Entries = append(valid, FileData{Key: key, Value: value, ExpiryDate: now.Add(ttl)})
	return SaveEntries(c.filename, data)
}

// DeleteExpired rewrites the file without expired entries and returns the
// keys it removed.
func (c *FileCache) DeleteExpired() ([]string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := LoadEntries(c.filename)
	if err != nil {
		return nil, err
	}

	now := c.now()
	var removed []string
	var valid []FileData
	for _, entry := range data.Entries {
		if now.Before(entry.ExpiryDate) {
			valid = append(valid, entry)
		} else {
			removed = append(removed, entry.Key)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}

	data.Entries = valid
	return removed, SaveEntries(c.filename, data)
}

// Sweep calls DeleteExpired on every tick until ctx is done.
func (c *FileCache) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.DeleteExpired()
			if err != nil {
				log.Printf("Error deleting expired cache entries: %v", err)
				continue
			}
			if len(removed) > 0 {
				log.Debugf("Removed %d expired price cache entries", len(removed))
			}
		}
	}
}

func LoadEntries(filename string) (FileDataList, error) {
	var data FileDataList

	fileBytes, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, err
	}
	if len(fileBytes) == 0 {
		return data, nil
	}

	err = json.Unmarshal(fileBytes, &data)
	return data, err
}

func SaveEntries(filename string, data FileDataList) error {
	fileBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, fileBytes, 0644)
}
