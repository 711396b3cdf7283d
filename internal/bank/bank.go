package bank

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"hatrean-quiz-service/internal/domain"
)

// Bank holds a fixed question catalog and hands out random samples.
// Sampling never mutates the catalog.
type Bank struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	questions []domain.Question
	byCat     map[string][]domain.Question
}

// New builds a bank over the given questions.
func New(questions []domain.Question) *Bank {
	return NewWithSource(questions, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource allows deterministic sampling in tests.
func NewWithSource(questions []domain.Question, src rand.Source) *Bank {
	b := &Bank{
		rnd:       rand.New(src),
		questions: append([]domain.Question(nil), questions...),
		byCat:     make(map[string][]domain.Question),
	}
	for _, q := range b.questions {
		b.byCat[q.Category] = append(b.byCat[q.Category], q)
	}
	return b
}

// Default returns a bank over the built-in catalog.
func Default() *Bank {
	return New(Catalog())
}

// Size reports the number of questions in the catalog.
func (b *Bank) Size() int {
	return len(b.questions)
}

// All returns a copy of the whole catalog.
func (b *Bank) All() []domain.Question {
	return append([]domain.Question(nil), b.questions...)
}

// Categories lists the catalog's categories sorted by name.
func (b *Bank) Categories() []domain.Category {
	names := make([]string, 0, len(b.byCat))
	for name := range b.byCat {
		names = append(names, name)
	}
	sort.Strings(names)

	cats := make([]domain.Category, 0, len(names))
	for _, name := range names {
		cats = append(cats, domain.Category{ID: "bank-" + slug(name), Name: name})
	}
	return cats
}

// SampleRandom returns min(count, size) questions drawn without replacement
// in shuffled order.
func (b *Bank) SampleRandom(count int) []domain.Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	return shuffleWithLimit(b.rnd, b.questions, count)
}

// SampleByCategory samples from one category. An unknown or empty category
// yields an empty slice, not an error; callers fall back to SampleMixed.
func (b *Bank) SampleByCategory(category string, count int) []domain.Question {
	pool, ok := b.byCat[category]
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return shuffleWithLimit(b.rnd, pool, count)
}

// SampleMixed draws an approximately even number of questions from every
// category. Each category contributes up to ceil(count/categories); if some
// category runs short, the remainder is filled from the rest of the catalog.
func (b *Bank) SampleMixed(count int) []domain.Question {
	if count <= 0 || len(b.questions) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(b.byCat))
	for name := range b.byCat {
		names = append(names, name)
	}
	b.rnd.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	share := (count + len(names) - 1) / len(names)
	picked := make([]domain.Question, 0, count)
	taken := make(map[string]struct{}, count)
	for _, name := range names {
		for _, q := range shuffleWithLimit(b.rnd, b.byCat[name], share) {
			picked = append(picked, q)
			taken[q.ID] = struct{}{}
		}
	}

	// Top up from the rest of the catalog when categories were short.
	if len(picked) < count {
		for _, q := range shuffleWithLimit(b.rnd, b.questions, len(b.questions)) {
			if len(picked) >= count {
				break
			}
			if _, ok := taken[q.ID]; ok {
				continue
			}
			picked = append(picked, q)
			taken[q.ID] = struct{}{}
		}
	}

	return shuffleWithLimit(b.rnd, picked, count)
}

// shuffleWithLimit copies the pool, Fisher-Yates shuffles it, and truncates
// to limit. A non-positive or oversized limit returns the whole pool.
func shuffleWithLimit(rnd *rand.Rand, pool []domain.Question, limit int) []domain.Question {
	shuffled := make([]domain.Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}
