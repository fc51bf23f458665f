package matching

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// CropStemmer reduces crop names to stemmed keys so plural/singular spellings
// ("tomatoes" vs "tomato") land in the same candidate pool.
type CropStemmer struct {
	cache map[string]string
	mu    sync.RWMutex
}

// NewCropStemmer creates a caching English-language crop stemmer.
func NewCropStemmer() *CropStemmer {
	return &CropStemmer{cache: make(map[string]string)}
}

// Key returns the stemmed pool key for a cleaned crop name. Words that the
// stemmer cannot handle are kept as-is.
func (cs *CropStemmer) Key(crop string) string {
	crop = strings.TrimSpace(strings.ToLower(crop))
	if crop == "" {
		return ""
	}

	cs.mu.RLock()
	if cached, ok := cs.cache[crop]; ok {
		cs.mu.RUnlock()
		return cached
	}
	cs.mu.RUnlock()

	words := strings.Fields(crop)
	stemmed := make([]string, len(words))
	for i, w := range words {
		s, err := snowball.Stem(w, "english", false)
		if err != nil || s == "" {
			s = w
		}
		stemmed[i] = s
	}
	key := strings.Join(stemmed, " ")

	cs.mu.Lock()
	cs.cache[crop] = key
	cs.mu.Unlock()
	return key
}
